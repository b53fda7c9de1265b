package models

import "fmt"

type SubmitJobRequest struct {
	Items          []BatchItem `json:"items" binding:"omitempty,dive"`
	Prompts        []string    `json:"prompts"`
	Model          string      `json:"model"`
	UserID         string      `json:"user_id"`
	Priority       int         `json:"priority"`
	CallbackURL    string      `json:"callback_url" binding:"omitempty,url"`
	MaxRetries     *int        `json:"max_retries" binding:"omitempty,min=0,max=10"`
	TimeoutSeconds int         `json:"timeout_seconds" binding:"omitempty,min=1"`
}

type SubmitJobResponse struct {
	JobID  string   `json:"job_id"`
	Status JobState `json:"status"`
}

type ProcessBatchRequest struct {
	Prompts       []string `json:"prompts" binding:"required,min=1"`
	Model         string   `json:"model"`
	Template      string   `json:"template"`
	UserID        string   `json:"user_id"`
	MaxConcurrent int      `json:"max_concurrent" binding:"omitempty,min=1,max=100"`
}

type ProcessBatchResponse struct {
	Results        []BatchResult `json:"results"`
	TotalProcessed int           `json:"total_processed"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
}

type EnhanceRequest struct {
	UserInput string `json:"user_input" binding:"required"`
	Template  string `json:"template"`
	Model     string `json:"model"`
}

type EnhanceResponse struct {
	EnhancedPrompt string `json:"enhanced_prompt"`
	TemplateUsed   string `json:"template_used"`
	Model          string `json:"model"`
}

// BatchItems returns the request's items, building them from Prompts when no
// explicit items were given. Items without a model inherit Model.
func (r *SubmitJobRequest) BatchItems() []BatchItem {
	if len(r.Items) > 0 {
		items := make([]BatchItem, len(r.Items))
		for i, item := range r.Items {
			if item.Model == "" {
				item.Model = r.Model
			}
			items[i] = item
		}
		return items
	}

	items := make([]BatchItem, len(r.Prompts))
	for i, prompt := range r.Prompts {
		items[i] = BatchItem{
			ID:     fmt.Sprintf("item_%d", i),
			Prompt: prompt,
			Model:  r.Model,
		}
	}
	return items
}

type DetectTemplateRequest struct {
	UserInput string `json:"user_input" binding:"required"`
}

type DetectTemplateResponse struct {
	DetectedTemplate string `json:"detected_template"`
	TemplateName     string `json:"template_name"`
}
