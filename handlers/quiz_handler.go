package handlers

import (
	"errors"
	"net/http"

	"quizbuilder/models"
	"quizbuilder/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type QuizHandler struct {
	quizService *services.QuizService
	hub         *services.Hub
}

func NewQuizHandler(quizService *services.QuizService, hub *services.Hub) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		hub:         hub,
	}
}

// CreateQuiz handles POST /quizzes. Every failure, binding or store, is a 400.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req models.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.BroadcastQuizCreated(quiz)
	c.JSON(http.StatusCreated, quiz)
}

// ListQuizzes handles GET /quizzes.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetQuiz handles GET /quizzes/:id.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetQuiz(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz handles DELETE /quizzes/:id.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := c.Param("id")
	if err := h.quizService.DeleteQuiz(c.Request.Context(), id); err != nil {
		h.writeLookupError(c, err)
		return
	}

	h.hub.BroadcastQuizDeleted(id)
	c.Status(http.StatusNoContent)
}

func (h *QuizHandler) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Quiz not found"})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
