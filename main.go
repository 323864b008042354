package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/RextonRZ/EqualLens-project-sub000/internal/backend"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/cache"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/config"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/editor"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/events"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/handlers"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/profiles"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/utils"
	"github.com/RextonRZ/EqualLens-project-sub000/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Invalid Redis URL: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				log.Printf("Warning: Failed to connect to Redis: %v", err)
				redisClient = nil
			}
		}
	}
	cacheManager := cache.NewCacheManager(redisClient)

	// Initialize backend client
	backendClient := backend.NewCachedClient(
		backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, slogLogger),
		cacheManager,
	)

	// Initialize event publisher
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		publisher = events.NewLocalEventPublisher(slogLogger)
	}

	// Initialize validator
	validator := validator.New()

	// Initialize session manager and profile generator
	sessionManager := editor.NewManager(backendClient, publisher, slogLogger)
	profileGenerator := profiles.NewGenerator(backendClient, publisher, slogLogger)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(sessionManager, backendClient, profileGenerator, validator, logger, cfg.Casdoor)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Note: Authentication middleware is applied per route group in SetupRoutes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Close event publisher
	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
