package middleware

import (
	"net/http"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns handler panics into a 500 APIResponse.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		logger.Error("Recovered handler panic",
			zap.Any("panic", recovered),
			zap.String("request_id", ctx.GetString(requestIDKey)),
			zap.String("route", ctx.FullPath()),
		)

		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.APIResponse{
			Success: false,
			Error:   "internal server error",
		})
	})
}
