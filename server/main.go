package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/blackarched/Prompt-Kraft/internal/http/handlers"
	"github.com/blackarched/Prompt-Kraft/internal/http/routes"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/blackarched/Prompt-Kraft/internal/services/notifier"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/blackarched/Prompt-Kraft/internal/services/queue"
	"github.com/blackarched/Prompt-Kraft/internal/services/storage"
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

	promptConfig, err := processor.LoadConfig(cfg.Prompt.TemplatesFile)
	if err != nil {
		logger.Fatal("Failed to load prompt templates", zap.Error(err))
	}

	// Initialize services
	promptProcessor := processor.NewPromptProcessor(cfg.Prompt.MaxInputLength)

	store, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	var enhancer batch.Enhancer = promptProcessor
	if store.CacheEnabled() {
		enhancer = storage.NewCachingEnhancer(promptProcessor, store, logger)
	}

	opts := []batch.Option{batch.WithNotifier(notifier.NewHTTPNotifier(cfg.Callback.Timeout))}

	var queueService *queue.QueueService
	if cfg.RabbitMQ.Enabled {
		queueService, err = queue.NewQueueService(cfg.RabbitMQ, nil, logger)
		if err != nil {
			logger.Warn("Failed to initialize queue service", zap.Error(err))
			// Continue without queue service for basic functionality
			queueService = nil
		} else {
			opts = append(opts, batch.WithEventPublisher(queueService))
		}
	}

	engine := batch.NewService(cfg.Batch, promptConfig, promptProcessor, enhancer, logger, opts...)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var queueBackend handlers.QueueBackend
	if queueService != nil {
		queueService.SetSubmitter(engine)
		queueBackend = queueService

		for i := 1; i <= cfg.RabbitMQ.Workers; i++ {
			if err := queueService.StartWorker(workerCtx, i); err != nil {
				logger.Error("Failed to start queue worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	// Initialize handlers
	batchHandler := handlers.NewBatchHandler(engine, store, queueBackend, logger)

	templateHandler := handlers.NewTemplateHandler(promptConfig, promptProcessor)

	router := routes.NewRouter(batchHandler, templateHandler, cfg.Server.AllowedOrigins, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Batch.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWorkers()

	if err := engine.Shutdown(ctx); err != nil {
		logger.Error("Batch engine forced to shutdown", zap.Error(err))
	}

	if queueService != nil {
		if err := queueService.Close(); err != nil {
			logger.Warn("Failed to close queue service", zap.Error(err))
		}
	}
	if err := store.Close(); err != nil {
		logger.Warn("Failed to close storage service", zap.Error(err))
	}

	logger.Info("Server exited")
}
