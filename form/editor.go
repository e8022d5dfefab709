package form

import (
	"context"
	"errors"
	"sync"

	"quizbuilder/models"
)

var ErrSubmitting = errors.New("a submission is already in progress")

// Creator sends a quiz to the server. *client.Client satisfies it.
type Creator interface {
	CreateQuiz(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error)
}

// Editor holds the current draft of one authoring screen.
type Editor struct {
	mu         sync.Mutex
	draft      Draft
	submitting bool
}

func NewEditor() *Editor {
	return &Editor{}
}

// NewEditorFrom starts editing an existing draft.
func NewEditorFrom(d Draft) *Editor {
	return &Editor{draft: d.clone()}
}

func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Submitting reports whether the submit affordance should be disabled.
func (e *Editor) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

func (e *Editor) Dispatch(a Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := Reduce(e.draft, a)
	if err != nil {
		return err
	}
	e.draft = next
	return nil
}

// Submit validates the draft and, only if it passes, sends it. The
// submitting flag is held for the duration of the call.
func (e *Editor) Submit(ctx context.Context, creator Creator) (*models.Quiz, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return nil, ErrSubmitting
	}
	if err := Validate(e.draft); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	req := ToRequest(e.draft)
	e.submitting = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	return creator.CreateQuiz(ctx, req)
}
