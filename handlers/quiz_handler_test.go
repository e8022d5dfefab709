package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizbuilder/models"
	"quizbuilder/services"
	"quizbuilder/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(h *QuizHandler) *gin.Engine {
	router := gin.New()
	router.GET("/quizzes", h.ListQuizzes)
	router.POST("/quizzes", h.CreateQuiz)
	router.GET("/quizzes/:id", h.GetQuiz)
	router.DELETE("/quizzes/:id", h.DeleteQuiz)
	return router
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return newRouter(NewQuizHandler(services.NewQuizService(db, nil), nil))
}

func doRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateQuizHandler(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/quizzes", testutil.CapitalsRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Capitals", body["title"])
	assert.NotEmpty(t, body["createdAt"])

	questions := body["questions"].([]interface{})
	require.Len(t, questions, 1)
	question := questions[0].(map[string]interface{})
	assert.Equal(t, body["id"], question["quizId"])
	assert.Equal(t, "BOOLEAN", question["type"])
	assert.NotContains(t, question, "position")

	options := question["options"].([]interface{})
	require.Len(t, options, 2)
	first := options[0].(map[string]interface{})
	assert.Equal(t, "True", first["text"])
	assert.Equal(t, true, first["isCorrect"])
	assert.Equal(t, question["id"], first["questionId"])
}

func TestCreateQuizHandlerRejects(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"malformed json", `{"title": "Capitals",`},
		{"missing title", map[string]interface{}{"questions": testutil.CapitalsRequest().Questions}},
		{"blank title", map[string]interface{}{"title": "   ", "questions": testutil.CapitalsRequest().Questions}},
		{"missing questions", map[string]interface{}{"title": "Capitals"}},
		{"empty questions", map[string]interface{}{"title": "Capitals", "questions": []interface{}{}}},
		{"bad type", map[string]interface{}{"title": "Capitals", "questions": []interface{}{
			map[string]interface{}{"text": "q", "type": "RADIO", "options": []interface{}{}},
		}}},
		{"missing options", map[string]interface{}{"title": "Capitals", "questions": []interface{}{
			map[string]interface{}{"text": "q", "type": "INPUT"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t)

			w := doRequest(router, http.MethodPost, "/quizzes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeError(t, w))

			list := doRequest(router, http.MethodGet, "/quizzes", nil)
			assert.JSONEq(t, `[]`, list.Body.String())
		})
	}
}

func TestListQuizzesHandler(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	doRequest(router, http.MethodPost, "/quizzes", testutil.CapitalsRequest())
	doRequest(router, http.MethodPost, "/quizzes", testutil.MixedRequest())

	w = doRequest(router, http.MethodGet, "/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []models.QuizSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "General knowledge", summaries[0].Title)
	assert.Equal(t, 3, summaries[0].QuestionCount)
	assert.Equal(t, "Capitals", summaries[1].Title)
	assert.Equal(t, 1, summaries[1].QuestionCount)
}

func TestGetAndDeleteQuizHandler(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/quizzes", testutil.CapitalsRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doRequest(router, http.MethodGet, "/quizzes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Quiz
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Questions[0].Options, 2)

	w = doRequest(router, http.MethodDelete, "/quizzes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(router, http.MethodGet, "/quizzes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Quiz not found", decodeError(t, w))

	w = doRequest(router, http.MethodDelete, "/quizzes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Quiz not found", decodeError(t, w))
}

func TestGetQuizHandlerUnknownID(t *testing.T) {
	router := setupRouter(t)

	for _, id := range []string{"00000000-0000-0000-0000-000000000000", "not-a-uuid"} {
		w := doRequest(router, http.MethodGet, "/quizzes/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
}

func TestStoreFailuresAreServerErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	router := newRouter(NewQuizHandler(services.NewQuizService(db, nil), nil))

	storeErr := errors.New("database is unavailable")
	mock.ExpectQuery(`SELECT quizzes.id`).WillReturnError(storeErr)
	mock.ExpectQuery(`SELECT \* FROM "quizzes"`).WillReturnError(storeErr)

	w := doRequest(router, http.MethodGet, "/quizzes", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w), "database is unavailable")

	w = doRequest(router, http.MethodGet, "/quizzes/q1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w), "database is unavailable")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateNotBlank(t *testing.T) {
	RegisterValidators()

	type payload struct {
		Name string `binding:"notblank"`
	}
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodPost, "/", `{"Name": " \t"}`).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/", `{"Name": "x"}`).Code)
}
