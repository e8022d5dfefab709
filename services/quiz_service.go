package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quizbuilder/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db           *gorm.DB
	cache        *QuizCache
	strictShapes bool
}

func NewQuizService(db *gorm.DB, cache *QuizCache) *QuizService {
	return &QuizService{db: db, cache: cache}
}

// WithStrictShapes makes CreateQuiz reject questions whose options break
// the per-type invariants instead of persisting them as given.
func (s *QuizService) WithStrictShapes(strict bool) *QuizService {
	s.strictShapes = strict
	return s
}

// CreateQuiz persists the quiz, its questions and their options in one
// transaction. Texts are trimmed and order is taken from the request.
func (s *QuizService) CreateQuiz(ctx context.Context, req *models.CreateQuizRequest) (*models.Quiz, error) {
	if req == nil || strings.TrimSpace(req.Title) == "" || len(req.Questions) == 0 {
		return nil, &ValidationError{Message: "title and questions are required"}
	}
	if s.strictShapes {
		if err := req.CheckShape(); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}

	quiz, err := buildQuiz(req)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Questions and options are saved through the association
	if err := tx.Create(quiz).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit quiz: %w", err)
	}

	s.cache.InvalidateSummaries(ctx)

	// Create filled in ids and timestamps; questions and options are
	// already in request order.
	return quiz, nil
}

func buildQuiz(req *models.CreateQuizRequest) (*models.Quiz, error) {
	quiz := &models.Quiz{
		Title:     strings.TrimSpace(req.Title),
		Questions: make([]models.Question, 0, len(req.Questions)),
	}

	for i, qReq := range req.Questions {
		if !qReq.Type.Valid() {
			return nil, &ValidationError{Message: fmt.Sprintf("question %d: invalid type %q", i+1, qReq.Type)}
		}
		if qReq.Options == nil {
			return nil, &ValidationError{Message: fmt.Sprintf("question %d: options are required", i+1)}
		}

		question := models.Question{
			Text:     strings.TrimSpace(qReq.Text),
			Type:     qReq.Type,
			Position: i,
			Options:  make([]models.Option, 0, len(qReq.Options)),
		}
		for j, optReq := range qReq.Options {
			question.Options = append(question.Options, models.Option{
				Text:      strings.TrimSpace(optReq.Text),
				IsCorrect: optReq.IsCorrect,
				Position:  j,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz, nil
}

// ListQuizzes returns quiz summaries, most recent first.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.QuizSummary, error) {
	if summaries, ok := s.cache.GetSummaries(ctx); ok {
		return summaries, nil
	}

	gen := s.cache.SummariesGeneration(ctx)

	summaries := []models.QuizSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Select("quizzes.id, quizzes.title, quizzes.created_at, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS question_count").
		Order("quizzes.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if summaries == nil {
		summaries = []models.QuizSummary{}
	}

	s.cache.StoreSummaries(ctx, summaries, gen)
	return summaries, nil
}

// GetQuiz returns the full aggregate or ErrNotFound.
func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	if quiz, ok := s.cache.GetQuiz(ctx, id); ok {
		return quiz, nil
	}

	gen := s.cache.QuizGeneration(ctx, id)
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.StoreQuiz(ctx, quiz, gen)
	return quiz, nil
}

func (s *QuizService) loadQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position")
		}).
		First(&quiz, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz %s: %w", id, err)
	}
	return &quiz, nil
}

// DeleteQuiz removes the quiz row; the foreign keys cascade to its
// questions and options. A missing id yields ErrNotFound.
func (s *QuizService) DeleteQuiz(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Quiz{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete quiz %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.cache.Invalidate(ctx, id)
	return nil
}
