package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Option struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	QuestionID string    `json:"questionId" gorm:"type:varchar(36);not null;index"`
	Text       string    `json:"text" gorm:"type:text;not null"`
	IsCorrect  bool      `json:"isCorrect" gorm:"not null;default:false"`
	Position   int       `json:"-" gorm:"not null"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
