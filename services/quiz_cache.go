package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quizbuilder/logger"
	"quizbuilder/models"

	"github.com/redis/go-redis/v9"
)

const (
	summariesKey    = "quizzes:summaries"
	summariesGenKey = "quizzes:summaries:gen"
)

var errStaleGeneration = errors.New("cache generation changed")

// QuizCache is a Redis read-through cache in front of the store. A nil
// *QuizCache, or one without a client, is valid and caches nothing.
//
// Every cached value has a generation counter that invalidation bumps.
// Readers take the generation before querying the store and the value is
// only written back if the generation is still the same.
type QuizCache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// Generation is the counter observed before a store read.
type Generation struct {
	key   string
	value string
	valid bool
}

func NewQuizCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *QuizCache {
	return &QuizCache{redis: client, ttl: ttl, log: log}
}

func (c *QuizCache) enabled() bool {
	return c != nil && c.redis != nil
}

func quizKey(id string) string {
	return "quiz:" + id
}

func quizGenKey(id string) string {
	return "quiz:" + id + ":gen"
}

// generation keys must outlive any read that captured them
func (c *QuizCache) genTTL() time.Duration {
	return 2 * c.ttl
}

func (c *QuizCache) GetQuiz(ctx context.Context, id string) (*models.Quiz, bool) {
	var quiz models.Quiz
	if !c.get(ctx, quizKey(id), &quiz) {
		return nil, false
	}
	return &quiz, true
}

// QuizGeneration must be called before the store read whose result is
// passed to StoreQuiz.
func (c *QuizCache) QuizGeneration(ctx context.Context, id string) Generation {
	return c.generation(ctx, quizGenKey(id))
}

func (c *QuizCache) StoreQuiz(ctx context.Context, quiz *models.Quiz, gen Generation) {
	c.set(ctx, quizKey(quiz.ID), quiz, gen)
}

func (c *QuizCache) GetSummaries(ctx context.Context) ([]models.QuizSummary, bool) {
	var summaries []models.QuizSummary
	if !c.get(ctx, summariesKey, &summaries) {
		return nil, false
	}
	return summaries, true
}

func (c *QuizCache) SummariesGeneration(ctx context.Context) Generation {
	return c.generation(ctx, summariesGenKey)
}

func (c *QuizCache) StoreSummaries(ctx context.Context, summaries []models.QuizSummary, gen Generation) {
	c.set(ctx, summariesKey, summaries, gen)
}

// InvalidateSummaries drops the cached list after a create.
func (c *QuizCache) InvalidateSummaries(ctx context.Context) {
	if err := c.invalidate(ctx, []string{summariesGenKey}, summariesKey); err != nil {
		c.log.WithError(err).Warn("failed to invalidate quiz list")
	}
}

// Invalidate drops a deleted quiz and the list that contained it.
func (c *QuizCache) Invalidate(ctx context.Context, id string) {
	err := c.invalidate(ctx, []string{quizGenKey(id), summariesGenKey}, quizKey(id), summariesKey)
	if err != nil {
		c.log.WithQuizID(id).WithError(err).Warn("failed to invalidate quiz")
	}
}

func (c *QuizCache) invalidate(ctx context.Context, genKeys []string, keys ...string) error {
	if !c.enabled() {
		return nil
	}

	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, g := range genKeys {
			pipe.Incr(ctx, g)
			pipe.Expire(ctx, g, c.genTTL())
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

func (c *QuizCache) generation(ctx context.Context, key string) Generation {
	if !c.enabled() {
		return Generation{}
	}

	value, err := c.redis.Get(ctx, key).Result()
	if err != nil && err != redis.Nil {
		c.log.WithField("key", key).WithError(err).Warn("redis get failed")
		return Generation{}
	}
	return Generation{key: key, value: value, valid: true}
}

func (c *QuizCache) get(ctx context.Context, key string, v interface{}) bool {
	if !c.enabled() {
		return false
	}

	data, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithField("key", key).WithError(err).Warn("redis get failed")
		}
		return false
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		c.log.WithField("key", key).WithError(err).Warn("failed to unmarshal cached value")
		return false
	}
	return true
}

// set writes v only while gen is still current.
func (c *QuizCache) set(ctx context.Context, key string, v interface{}, gen Generation) {
	if !c.enabled() || !gen.valid {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.log.WithField("key", key).WithError(err).Warn("failed to marshal value for cache")
		return
	}

	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, gen.key).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen.value {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, gen.key)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.log.WithField("key", key).Debug("skipped cache write after invalidation")
	default:
		c.log.WithField("key", key).WithError(err).Warn("redis set failed")
	}
}
