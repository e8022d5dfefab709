package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizbuilder/config"
	"quizbuilder/handlers"
	"quizbuilder/logger"
	"quizbuilder/metrics"
	"quizbuilder/middleware"
	"quizbuilder/models"
	"quizbuilder/routes"
	"quizbuilder/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.NewLogger("quiz-api", cfg.LogLevel)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	if redisClient == nil {
		log.Info("REDIS_HOST not set, quiz cache disabled")
	} else {
		defer redisClient.Close()
	}

	// Initialize services
	cache := services.NewQuizCache(redisClient, cfg.CacheTTL, log)
	quizService := services.NewQuizService(db, cache).WithStrictShapes(cfg.StrictShapes)

	// Initialize WebSocket hub
	hub := services.NewHub(log)
	go hub.Run()
	defer hub.Stop()

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(quizService, hub)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics("api")
	if sqlDB, err := db.DB(); err == nil {
		go m.CollectDBStats(ctx, sqlDB.Stats, 15*time.Second)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(m.Middleware())
	router.Use(middleware.CORS())

	routes.SetupRoutes(router, quizHandler, hub, m)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	log.WithField("port", cfg.Port).Info("Server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Failed to start server")
	}
	log.Info("Server stopped")
}
