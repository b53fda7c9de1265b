package handlers

import (
	"errors"
	"net/http"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *BatchHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func (h *BatchHandler) respondSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

// respondEngineError maps engine errors to HTTP status codes.
func (h *BatchHandler) respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, batch.ErrJobNotFound):
		h.respondError(c, http.StatusNotFound, "job not found")
	case errors.Is(err, batch.ErrEmptyItems):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, batch.ErrServiceClosed), errors.Is(err, batch.ErrPoolClosed):
		h.respondError(c, http.StatusServiceUnavailable, "batch engine is shutting down")
	default:
		h.logger.Error("Batch engine error", zap.Error(err), zap.String("path", c.FullPath()))
		h.respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "disabled" {
			return "unhealthy"
		}
	}
	return "healthy"
}
