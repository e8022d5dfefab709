// Package form is the client-side model of a quiz being authored.
//
// A Draft is a value: Reduce never modifies the draft it is given and
// returns a new one with Version incremented. Callers that keep a Draft
// must not write to its slices; use Reduce instead.
package form

import (
	"errors"
	"strings"

	"quizbuilder/models"
)

var (
	ErrMissingTitleOrQuestions = errors.New("Please add a title and at least one question")
	ErrBlankQuestion           = errors.New("All questions must have text")
	ErrBlankOption             = errors.New("All options must have text")
)

type Option struct {
	Text      string
	IsCorrect bool
}

type Question struct {
	Text    string
	Type    models.QuestionType
	Options []Option
}

// CanRemoveOption reports whether the remove affordance is enabled.
func (q Question) CanRemoveOption() bool {
	return len(q.Options) > 2
}

type Draft struct {
	Title     string
	Questions []Question
	Version   int
}

// NewQuestion returns a question of type t with its default options.
func NewQuestion(t models.QuestionType) Question {
	q := Question{Type: t}
	switch t {
	case models.QuestionTypeBoolean:
		q.Options = []Option{
			{Text: "True", IsCorrect: false},
			{Text: "False", IsCorrect: false},
		}
	case models.QuestionTypeInput:
		q.Options = []Option{{Text: "", IsCorrect: true}}
	case models.QuestionTypeCheckbox:
		q.Options = []Option{
			{Text: "", IsCorrect: false},
			{Text: "", IsCorrect: false},
		}
	}
	return q
}

func (d Draft) clone() Draft {
	out := Draft{Title: d.Title, Version: d.Version}
	if d.Questions != nil {
		out.Questions = make([]Question, len(d.Questions))
		for i, q := range d.Questions {
			out.Questions[i] = q.clone()
		}
	}
	return out
}

func (q Question) clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]Option(nil), q.Options...)
	}
	return out
}

// Validate is the gate run before anything is sent to the server.
func Validate(d Draft) error {
	if strings.TrimSpace(d.Title) == "" || len(d.Questions) == 0 {
		return ErrMissingTitleOrQuestions
	}

	for _, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return ErrBlankQuestion
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt.Text) == "" {
				return ErrBlankOption
			}
		}
	}
	return nil
}

// ToRequest converts the draft into the API payload. Texts are sent as
// typed; the server trims them.
func ToRequest(d Draft) *models.CreateQuizRequest {
	req := &models.CreateQuizRequest{
		Title:     d.Title,
		Questions: make([]models.CreateQuestionRequest, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		qReq := models.CreateQuestionRequest{
			Text:    q.Text,
			Type:    q.Type,
			Options: make([]models.CreateOptionRequest, 0, len(q.Options)),
		}
		for _, opt := range q.Options {
			qReq.Options = append(qReq.Options, models.CreateOptionRequest{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		req.Questions = append(req.Questions, qReq)
	}
	return req
}

// FromRequest builds a draft from a saved payload, e.g. a JSON file.
func FromRequest(req *models.CreateQuizRequest) Draft {
	d := Draft{Title: req.Title}
	for _, qReq := range req.Questions {
		q := Question{Text: qReq.Text, Type: qReq.Type, Options: []Option{}}
		for _, optReq := range qReq.Options {
			q.Options = append(q.Options, Option{Text: optReq.Text, IsCorrect: optReq.IsCorrect})
		}
		d.Questions = append(d.Questions, q)
	}
	return d
}
