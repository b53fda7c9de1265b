package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BatchEngine interface {
	SubmitJob(items []models.BatchItem, opts batch.SubmitOptions) (string, error)
	GetJobStatus(jobID string) (*models.JobStatus, error)
	CancelJob(jobID string) bool
	ProcessBatch(ctx context.Context, prompts []string, model, template, userID string, maxConcurrent int) ([]models.BatchResult, error)
	ProcessItems(ctx context.Context, items []models.BatchItem, maxConcurrent int) ([]models.BatchResult, error)
	GetStats() models.EngineStats
}

type StorageBackend interface {
	HealthCheck(ctx context.Context) map[string]string
	GetCacheStats(ctx context.Context) (map[string]interface{}, error)
	CacheEnabled() bool
}

type QueueBackend interface {
	HealthCheck() string
	GetQueueStats() (map[string]interface{}, error)
}

type BatchHandler struct {
	engine  BatchEngine
	storage StorageBackend
	queue   QueueBackend
	logger  *zap.Logger
}

// NewBatchHandler builds the handler. storage and queue may be nil.
func NewBatchHandler(engine BatchEngine, storage StorageBackend, queue QueueBackend, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{
		engine:  engine,
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

// === BATCH JOBS ===

func (h *BatchHandler) SubmitJob(c *gin.Context) {
	var req models.SubmitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	items := req.BatchItems()
	if len(items) == 0 {
		h.respondError(c, http.StatusBadRequest, "either items or prompts must be provided")
		return
	}

	jobID, err := h.engine.SubmitJob(items, batch.SubmitOptions{
		UserID:      req.UserID,
		Priority:    req.Priority,
		CallbackURL: req.CallbackURL,
		MaxRetries:  req.MaxRetries,
		Timeout:     time.Duration(req.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data: models.SubmitJobResponse{
			JobID:  jobID,
			Status: models.StatusQueued,
		},
	})
}

func (h *BatchHandler) GetJobStatus(c *gin.Context) {
	status, err := h.engine.GetJobStatus(c.Param("id"))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	h.respondSuccess(c, status)
}

func (h *BatchHandler) CancelJob(c *gin.Context) {
	jobID := c.Param("id")

	if !h.engine.CancelJob(jobID) {
		h.respondError(c, http.StatusConflict, "job is not running and cannot be cancelled")
		return
	}

	h.respondSuccess(c, gin.H{"job_id": jobID, "cancelled": true})
}

// === DIRECT PROCESSING ===

func (h *BatchHandler) ProcessBatch(c *gin.Context) {
	var req models.ProcessBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.engine.ProcessBatch(c.Request.Context(), req.Prompts, req.Model, req.Template, req.UserID, req.MaxConcurrent)
	if err != nil && results == nil {
		h.respondEngineError(c, err)
		return
	}
	if err != nil {
		h.logger.Warn("Batch finished with undispatched items", zap.Error(err))
	}

	successful, failed := models.CountResults(results)
	h.respondSuccess(c, models.ProcessBatchResponse{
		Results:        results,
		TotalProcessed: len(results),
		Successful:     successful,
		Failed:         failed,
	})
}

func (h *BatchHandler) Enhance(c *gin.Context) {
	var req models.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	item := models.BatchItem{
		ID:       "single",
		Prompt:   req.UserInput,
		Model:    req.Model,
		Template: req.Template,
	}

	results, err := h.engine.ProcessItems(c.Request.Context(), []models.BatchItem{item}, 1)
	if err != nil || len(results) != 1 {
		h.respondEngineError(c, err)
		return
	}

	result := results[0]
	if !result.Success {
		h.respondError(c, http.StatusUnprocessableEntity, result.ErrorMessage)
		return
	}

	model := req.Model
	if model == "" {
		model = "default"
	}

	h.respondSuccess(c, models.EnhanceResponse{
		EnhancedPrompt: result.EnhancedPrompt,
		TemplateUsed:   result.TemplateUsed,
		Model:          model,
	})
}

// === OPERATIONS ===

func (h *BatchHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"engine":    h.engine.GetStats(),
		"timestamp": time.Now().UTC(),
	}

	if h.storage != nil && h.storage.CacheEnabled() {
		cacheStats, err := h.storage.GetCacheStats(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to get cache stats", zap.Error(err))
		} else {
			stats["cache"] = cacheStats
		}
	}

	if h.queue != nil {
		queueStats, err := h.queue.GetQueueStats()
		if err != nil {
			h.logger.Error("Failed to get queue stats", zap.Error(err))
		} else {
			stats["queues"] = queueStats
		}
	}

	h.respondSuccess(c, stats)
}

func (h *BatchHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{"batch_engine": "healthy"}

	if h.storage != nil {
		for name, status := range h.storage.HealthCheck(c.Request.Context()) {
			services[name] = status
		}
	}

	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	} else {
		services["rabbitmq"] = "disabled"
	}

	overall := calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Services:  services,
			Engine:    h.engine.GetStats(),
		},
	})
}
