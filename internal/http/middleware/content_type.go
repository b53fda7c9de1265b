package middleware

import (
	"net/http"
	"strings"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireJSON rejects request bodies that are not declared as JSON
func RequireJSON() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
			ctx.Next()
			return
		}

		contentType := ctx.GetHeader("Content-Type")
		if !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
				Success: false,
				Error:   "Content-Type must be application/json",
			})
			return
		}

		ctx.Next()
	}
}
