package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionType is the closed set of question variants.
type QuestionType string

const (
	QuestionTypeBoolean  QuestionType = "BOOLEAN"
	QuestionTypeInput    QuestionType = "INPUT"
	QuestionTypeCheckbox QuestionType = "CHECKBOX"
)

// Valid reports whether t is one of the known variants.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeBoolean, QuestionTypeInput, QuestionTypeCheckbox:
		return true
	}
	return false
}

type Question struct {
	ID        string       `json:"id" gorm:"type:varchar(36);primaryKey"`
	QuizID    string       `json:"quizId" gorm:"type:varchar(36);not null;index"`
	Text      string       `json:"text" gorm:"type:text;not null"`
	Type      QuestionType `json:"type" gorm:"size:16;not null"`
	Position  int          `json:"-" gorm:"not null"`
	CreatedAt time.Time    `json:"-"`
	UpdatedAt time.Time    `json:"-"`

	// Relationships
	Options []Option `json:"options" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
