package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBlankText    = errors.New("text must not be blank")
	ErrUnknownType  = errors.New("unknown question type")
	ErrOptionCount  = errors.New("wrong number of options")
	ErrCorrectCount = errors.New("wrong number of correct options")
)

// CheckShape verifies the per-type option invariants of a question:
// BOOLEAN has two options with exactly one correct, INPUT has a single
// correct option, CHECKBOX has at least two options. Texts must be
// non-blank after trimming.
func (q CreateQuestionRequest) CheckShape() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text: %w", ErrBlankText)
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("option %d: %w", i+1, ErrBlankText)
		}
	}

	correct := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct++
		}
	}

	switch q.Type {
	case QuestionTypeBoolean:
		if len(q.Options) != 2 {
			return fmt.Errorf("boolean question needs 2 options, got %d: %w", len(q.Options), ErrOptionCount)
		}
		if correct != 1 {
			return fmt.Errorf("boolean question needs exactly one correct option, got %d: %w", correct, ErrCorrectCount)
		}
	case QuestionTypeInput:
		if len(q.Options) != 1 {
			return fmt.Errorf("input question needs 1 option, got %d: %w", len(q.Options), ErrOptionCount)
		}
		if correct != 1 {
			return fmt.Errorf("input question option must be correct: %w", ErrCorrectCount)
		}
	case QuestionTypeCheckbox:
		if len(q.Options) < 2 {
			return fmt.Errorf("checkbox question needs at least 2 options, got %d: %w", len(q.Options), ErrOptionCount)
		}
	default:
		return fmt.Errorf("%q: %w", q.Type, ErrUnknownType)
	}
	return nil
}

// CheckShape runs the question checks over the whole payload.
func (r CreateQuizRequest) CheckShape() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title: %w", ErrBlankText)
	}
	for i, q := range r.Questions {
		if err := q.CheckShape(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
