package form

import (
	"errors"
	"fmt"

	"quizbuilder/models"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrOptionFloor     = errors.New("question must keep at least two options")
	ErrFixedShape      = errors.New("options of this question type are fixed")
	ErrNotBoolean      = errors.New("not a boolean question")
	ErrUnknownField    = errors.New("unknown field")
	ErrFieldValue      = errors.New("value has the wrong type for field")
	ErrUnknownAction   = errors.New("unknown action")
)

type QuestionField string

const (
	QuestionText QuestionField = "text"
	QuestionType QuestionField = "type"
)

type OptionField string

const (
	OptionText      OptionField = "text"
	OptionIsCorrect OptionField = "isCorrect"
)

// Action is one state transition of a Draft.
type Action interface {
	actionName() string
}

type SetTitle struct {
	Title string
}

type AddQuestion struct {
	Type models.QuestionType
}

type RemoveQuestion struct {
	Index int
}

// UpdateQuestion replaces one field. Changing the type leaves the
// options as they are.
type UpdateQuestion struct {
	Index int
	Field QuestionField
	Value string
}

// UpdateOption replaces one field; Value is a string for OptionText and
// a bool for OptionIsCorrect. Marking a boolean option correct clears
// its sibling.
type UpdateOption struct {
	QuestionIndex int
	OptionIndex   int
	Field         OptionField
	Value         interface{}
}

type AddOption struct {
	QuestionIndex int
}

type RemoveOption struct {
	QuestionIndex int
	OptionIndex   int
}

// SelectBooleanCorrect marks one option correct and every sibling incorrect.
type SelectBooleanCorrect struct {
	QuestionIndex int
	OptionIndex   int
}

func (SetTitle) actionName() string             { return "setTitle" }
func (AddQuestion) actionName() string          { return "addQuestion" }
func (RemoveQuestion) actionName() string       { return "removeQuestion" }
func (UpdateQuestion) actionName() string       { return "updateQuestion" }
func (UpdateOption) actionName() string         { return "updateOption" }
func (AddOption) actionName() string            { return "addOption" }
func (RemoveOption) actionName() string         { return "removeOption" }
func (SelectBooleanCorrect) actionName() string { return "selectBooleanCorrect" }

// Reduce applies a to d and returns the next draft. On error the
// original draft is returned unchanged.
func Reduce(d Draft, a Action) (Draft, error) {
	next := d.clone()

	var err error
	switch a := a.(type) {
	case SetTitle:
		next.Title = a.Title
	case AddQuestion:
		err = addQuestion(&next, a)
	case RemoveQuestion:
		err = removeQuestion(&next, a)
	case UpdateQuestion:
		err = updateQuestion(&next, a)
	case UpdateOption:
		err = updateOption(&next, a)
	case AddOption:
		err = addOption(&next, a)
	case RemoveOption:
		err = removeOption(&next, a)
	case SelectBooleanCorrect:
		err = selectBooleanCorrect(&next, a)
	default:
		err = fmt.Errorf("%T: %w", a, ErrUnknownAction)
	}
	if err != nil {
		return d, fmt.Errorf("%s: %w", nameOf(a), err)
	}

	next.Version++
	return next, nil
}

func nameOf(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}

func addQuestion(d *Draft, a AddQuestion) error {
	if !a.Type.Valid() {
		return fmt.Errorf("%q: %w", a.Type, models.ErrUnknownType)
	}
	d.Questions = append(d.Questions, NewQuestion(a.Type))
	return nil
}

func removeQuestion(d *Draft, a RemoveQuestion) error {
	if a.Index < 0 || a.Index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	d.Questions = append(d.Questions[:a.Index], d.Questions[a.Index+1:]...)
	return nil
}

func updateQuestion(d *Draft, a UpdateQuestion) error {
	q, err := question(d, a.Index)
	if err != nil {
		return err
	}

	switch a.Field {
	case QuestionText:
		q.Text = a.Value
	case QuestionType:
		t := models.QuestionType(a.Value)
		if !t.Valid() {
			return fmt.Errorf("%q: %w", a.Value, models.ErrUnknownType)
		}
		q.Type = t
	default:
		return fmt.Errorf("%q: %w", a.Field, ErrUnknownField)
	}
	return nil
}

func updateOption(d *Draft, a UpdateOption) error {
	opt, err := option(d, a.QuestionIndex, a.OptionIndex)
	if err != nil {
		return err
	}

	switch a.Field {
	case OptionText:
		text, ok := a.Value.(string)
		if !ok {
			return fmt.Errorf("%s: %w", a.Field, ErrFieldValue)
		}
		opt.Text = text
	case OptionIsCorrect:
		correct, ok := a.Value.(bool)
		if !ok {
			return fmt.Errorf("%s: %w", a.Field, ErrFieldValue)
		}
		// boolean questions keep radio semantics
		if correct && d.Questions[a.QuestionIndex].Type == models.QuestionTypeBoolean {
			return selectBooleanCorrect(d, SelectBooleanCorrect{QuestionIndex: a.QuestionIndex, OptionIndex: a.OptionIndex})
		}
		opt.IsCorrect = correct
	default:
		return fmt.Errorf("%q: %w", a.Field, ErrUnknownField)
	}
	return nil
}

func addOption(d *Draft, a AddOption) error {
	q, err := question(d, a.QuestionIndex)
	if err != nil {
		return err
	}
	if q.Type != models.QuestionTypeCheckbox {
		return ErrFixedShape
	}
	q.Options = append(q.Options, Option{})
	return nil
}

func removeOption(d *Draft, a RemoveOption) error {
	q, err := question(d, a.QuestionIndex)
	if err != nil {
		return err
	}
	if a.OptionIndex < 0 || a.OptionIndex >= len(q.Options) {
		return ErrIndexOutOfRange
	}
	if !q.CanRemoveOption() {
		return ErrOptionFloor
	}
	q.Options = append(q.Options[:a.OptionIndex], q.Options[a.OptionIndex+1:]...)
	return nil
}

func selectBooleanCorrect(d *Draft, a SelectBooleanCorrect) error {
	q, err := question(d, a.QuestionIndex)
	if err != nil {
		return err
	}
	if q.Type != models.QuestionTypeBoolean {
		return ErrNotBoolean
	}
	if a.OptionIndex < 0 || a.OptionIndex >= len(q.Options) {
		return ErrIndexOutOfRange
	}
	for i := range q.Options {
		q.Options[i].IsCorrect = i == a.OptionIndex
	}
	return nil
}

// question returns a pointer into d, which must already be a clone.
func question(d *Draft, index int) (*Question, error) {
	if index < 0 || index >= len(d.Questions) {
		return nil, ErrIndexOutOfRange
	}
	return &d.Questions[index], nil
}

func option(d *Draft, questionIndex, optionIndex int) (*Option, error) {
	q, err := question(d, questionIndex)
	if err != nil {
		return nil, err
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, ErrIndexOutOfRange
	}
	return &q.Options[optionIndex], nil
}
