package models

import "time"

// BatchItem is one enhancement request inside a job or an ad-hoc batch.
type BatchItem struct {
	ID       string         `json:"id"`
	Prompt   string         `json:"prompt"`
	Model    string         `json:"model"`
	Template string         `json:"template,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// BatchResult is the outcome of one BatchItem. Exactly one of EnhancedPrompt
// and ErrorMessage is set, depending on Success.
type BatchResult struct {
	ID               string    `json:"id"`
	Success          bool      `json:"success"`
	EnhancedPrompt   string    `json:"enhanced_prompt,omitempty"`
	TemplateUsed     string    `json:"template_used,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

func NewSuccessResult(id, enhanced, templateUsed string, elapsed time.Duration) BatchResult {
	return BatchResult{
		ID:               id,
		Success:          true,
		EnhancedPrompt:   enhanced,
		TemplateUsed:     templateUsed,
		ProcessingTimeMs: toMillis(elapsed),
		Timestamp:        time.Now().UTC(),
	}
}

func NewFailedResult(id string, err error, elapsed time.Duration) BatchResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	return BatchResult{
		ID:               id,
		Success:          false,
		ErrorMessage:     msg,
		ProcessingTimeMs: toMillis(elapsed),
		Timestamp:        time.Now().UTC(),
	}
}

// BatchJob is a queued unit of work.
type BatchJob struct {
	JobID       string        `json:"job_id"`
	Items       []BatchItem   `json:"items"`
	CreatedAt   time.Time     `json:"created_at"`
	UserID      string        `json:"user_id,omitempty"`
	Priority    int           `json:"priority"`
	CallbackURL string        `json:"callback_url,omitempty"`
	MaxRetries  int           `json:"max_retries"`
	Timeout     time.Duration `json:"timeout"`
}

// CountResults returns the number of successful and failed results.
func CountResults(results []BatchResult) (successful, failed int) {
	for _, r := range results {
		if r.Success {
			successful++
		} else {
			failed++
		}
	}
	return successful, failed
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
