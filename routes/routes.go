package routes

import (
	"net/http"

	"quizbuilder/handlers"
	"quizbuilder/metrics"
	"quizbuilder/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the event stream carries no private data
	},
}

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	hub *services.Hub,
	m *metrics.Metrics,
) {
	quizzes := router.Group("/quizzes")
	{
		quizzes.GET("", quizHandler.ListQuizzes)
		quizzes.POST("", quizHandler.CreateQuiz)
		quizzes.GET("/:id", quizHandler.GetQuiz)
		quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
	}

	// Live list updates
	router.GET("/ws/quizzes", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the error response
			_ = c.Error(err)
			return
		}
		hub.RegisterClient(conn)
	})

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Quiz Builder API is running"})
	})
}
