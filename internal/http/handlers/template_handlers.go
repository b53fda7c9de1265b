package handlers

import (
	"net/http"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/gin-gonic/gin"
)

type TemplateDetector interface {
	DetectTemplate(cfg *processor.Config, input string) (string, string)
}

// TemplateHandler serves the prompt configuration the engine enhances with.
type TemplateHandler struct {
	config   *processor.Config
	detector TemplateDetector
}

func NewTemplateHandler(cfg *processor.Config, detector TemplateDetector) *TemplateHandler {
	return &TemplateHandler{config: cfg, detector: detector}
}

func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    gin.H{"templates": h.config.Templates},
	})
}

func (h *TemplateHandler) GetModels(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    gin.H{"models": h.config.Models()},
	})
}

func (h *TemplateHandler) DetectTemplate(c *gin.Context) {
	var req models.DetectTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	key, name := h.detector.DetectTemplate(h.config, req.UserInput)
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.DetectTemplateResponse{
			DetectedTemplate: key,
			TemplateName:     name,
		},
	})
}
