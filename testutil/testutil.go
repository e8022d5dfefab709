package testutil

import (
	"sync"
	"testing"
	"time"

	"quizbuilder/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Epoch is the first timestamp handed out by SetupTestDB's clock.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SetupTestDB opens a private in-memory SQLite database with foreign keys
// enabled and the quiz schema migrated. Its clock advances one second per
// call so creation order is unambiguous.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: steppingClock(),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	// every connection to :memory: is a new database, so keep exactly one
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.Quiz{}, &models.Question{}, &models.Option{}); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

func steppingClock() func() time.Time {
	var mu sync.Mutex
	now := Epoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

// CountRows returns the number of rows of model's table.
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// CapitalsRequest is the single boolean question example quiz.
func CapitalsRequest() *models.CreateQuizRequest {
	return &models.CreateQuizRequest{
		Title: "Capitals",
		Questions: []models.CreateQuestionRequest{
			{
				Text: "Is Paris in France?",
				Type: models.QuestionTypeBoolean,
				Options: []models.CreateOptionRequest{
					{Text: "True", IsCorrect: true},
					{Text: "False", IsCorrect: false},
				},
			},
		},
	}
}

// MixedRequest has one question of every type, with untrimmed texts.
func MixedRequest() *models.CreateQuizRequest {
	return &models.CreateQuizRequest{
		Title: "  General knowledge  ",
		Questions: []models.CreateQuestionRequest{
			{
				Text: " Is the sky blue? ",
				Type: models.QuestionTypeBoolean,
				Options: []models.CreateOptionRequest{
					{Text: "True", IsCorrect: true},
					{Text: "False"},
				},
			},
			{
				Text: "Capital of Italy?",
				Type: models.QuestionTypeInput,
				Options: []models.CreateOptionRequest{
					{Text: " Rome ", IsCorrect: true},
				},
			},
			{
				Text: "Pick the primes",
				Type: models.QuestionTypeCheckbox,
				Options: []models.CreateOptionRequest{
					{Text: "2", IsCorrect: true},
					{Text: "4"},
					{Text: "5", IsCorrect: true},
					{Text: "9"},
				},
			},
		},
	}
}
