package routes

import (
	"net/http"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/http/handlers"
	"github.com/blackarched/Prompt-Kraft/internal/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	batchHandler    *handlers.BatchHandler
	templateHandler *handlers.TemplateHandler
	allowedOrigins  []string
	logger          *zap.Logger
}

func NewRouter(
	batchHandler *handlers.BatchHandler,
	templateHandler *handlers.TemplateHandler,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		batchHandler:    batchHandler,
		templateHandler: templateHandler,
		allowedOrigins:  allowedOrigins,
		logger:          logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(cors.New(r.corsConfig()))
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.batchHandler.HealthCheck)
		v1.POST("/enhance", middleware.RequireJSON(), r.batchHandler.Enhance)

		v1.GET("/templates", r.templateHandler.GetTemplates)
		v1.GET("/models", r.templateHandler.GetModels)
		v1.POST("/detect-template", middleware.RequireJSON(), r.templateHandler.DetectTemplate)

		batch := v1.Group("/batch")
		{
			batch.GET("/stats", r.batchHandler.GetStats)
			batch.POST("/process", middleware.RequireJSON(), r.batchHandler.ProcessBatch)

			batch.POST("/jobs", middleware.RequireJSON(), r.batchHandler.SubmitJob)
			batch.GET("/jobs/:id", r.batchHandler.GetJobStatus)
			batch.DELETE("/jobs/:id", r.batchHandler.CancelJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Prompt batch engine is running",
		})
	})

	return router
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(r.allowedOrigins) == 0 || (len(r.allowedOrigins) == 1 && r.allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = r.allowedOrigins
	}

	return cfg
}
