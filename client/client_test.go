package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizbuilder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuiz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/quizzes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.CreateQuizRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Quiz{ID: "q1", Title: req.Title})
	}))
	defer srv.Close()

	quiz, err := New(srv.URL+"/").CreateQuiz(context.Background(), &models.CreateQuizRequest{Title: "Capitals"})
	require.NoError(t, err)
	assert.Equal(t, "q1", quiz.ID)
	assert.Equal(t, "Capitals", quiz.Title)
}

func TestCreateQuizServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"title and questions are required"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateQuiz(context.Background(), &models.CreateQuizRequest{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "title and questions are required", apiErr.Message)
}

func TestListAndGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quizzes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"q1","title":"Capitals","createdAt":"2024-01-01T00:00:01Z","questionCount":1}]`))
	})
	mux.HandleFunc("/quizzes/q1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"q1","title":"Capitals","questions":[{"id":"x","text":"Is Paris in France?","type":"BOOLEAN","options":[{"text":"True","isCorrect":true},{"text":"False","isCorrect":false}]}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL).WithHTTPClient(srv.Client())

	summaries, err := c.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].QuestionCount)

	quiz, err := c.GetQuiz(context.Background(), "q1")
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, models.QuestionTypeBoolean, quiz.Questions[0].Type)
	assert.True(t, quiz.Questions[0].Options[0].IsCorrect)
}

func TestGetQuizNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Quiz not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetQuiz(context.Background(), "missing")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Quiz not found", apiErr.Message)
}

func TestDeleteQuiz(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).DeleteQuiz(context.Background(), "q1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/quizzes/q1", gotPath)
}

func TestErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteQuiz(context.Background(), "q1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "502 Bad Gateway", apiErr.Message)
}
