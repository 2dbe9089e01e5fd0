package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/http/handlers"
	"github.com/phambaophuc/id-photo-studio/internal/http/routes"
	"github.com/phambaophuc/id-photo-studio/internal/services/batch"
	"github.com/phambaophuc/id-photo-studio/internal/services/generator"
	"github.com/phambaophuc/id-photo-studio/internal/services/processor"
	"github.com/phambaophuc/id-photo-studio/internal/services/queue"
	"github.com/phambaophuc/id-photo-studio/internal/services/ratelimit"
	"github.com/phambaophuc/id-photo-studio/internal/services/storage"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Cancelled on shutdown; stops workers, the sweeper and background batches.
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Initialize services
	redisClient := storage.NewRedisClient(cfg.Redis)
	defer redisClient.Close()
	storageService := storage.NewStorageService(cfg, redisClient, logger)

	var gen generator.Generator = generator.NewOpenAIGenerator(cfg.Generator, logger)
	gen = generator.WithCache(gen, storageService, logger)

	registry, err := ratelimit.NewRegistry(cfg.RateLimit.Quota, cfg.RateLimit.Window)
	if err != nil {
		logger.Fatal("Invalid rate limit configuration", zap.Error(err))
	}

	opts := []batch.Option{batch.WithFallbackCredential(cfg.Generator.APIKey)}
	if storageService.ArchiveEnabled() {
		opts = append(opts, batch.WithArchiver(storageService))
	}

	queueService, err := queue.NewQueueService(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service, batches will run in-process", zap.Error(err))
		queueService = nil
	} else {
		defer queueService.Close()
		opts = append(opts, batch.WithEventPublisher(queueService))
	}

	sessions := batch.NewSessionStore(cfg.Session.TTL, logger)
	go sessions.RunSweeper(appCtx, cfg.Session.SweepInterval)

	batchProcessor := batch.NewProcessor(registry, gen, cfg, logger, opts...)
	runner := batch.NewJobRunner(sessions, batchProcessor, logger)

	deps := handlers.Dependencies{
		Sessions:   sessions,
		Processor:  batchProcessor,
		Runner:     runner,
		Images:     processor.NewImageProcessor(cfg.Storage),
		Storage:    storageService,
		Logger:     logger,
		Config:     cfg,
		Background: appCtx,
	}

	if queueService != nil {
		deps.Queue = queueService
		for i := 1; i <= cfg.RabbitMQ.Workers; i++ {
			if err := queueService.StartWorker(appCtx, i, runner.Run); err != nil {
				logger.Fatal("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	// Initialize handlers
	studioHandler := handlers.NewStudioHandler(deps)

	router := routes.NewRouter(studioHandler, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.Int("quota", cfg.RateLimit.Quota),
			zap.Duration("window", cfg.RateLimit.Window))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopApp()

	logger.Info("Server exited")
}
