package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
)

var errInvalidSubmission = errors.New("invalid job submission")

// decodeSubmission parses a job submission message body.
func decodeSubmission(body []byte) ([]models.BatchItem, batch.SubmitOptions, error) {
	var req models.SubmitJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, batch.SubmitOptions{}, fmt.Errorf("%w: %v", errInvalidSubmission, err)
	}

	items := req.BatchItems()
	if len(items) == 0 {
		return nil, batch.SubmitOptions{}, fmt.Errorf("%w: no prompts or items", errInvalidSubmission)
	}
	if req.MaxRetries != nil && *req.MaxRetries < 0 {
		return nil, batch.SubmitOptions{}, fmt.Errorf("%w: max_retries must not be negative", errInvalidSubmission)
	}
	if req.TimeoutSeconds < 0 {
		return nil, batch.SubmitOptions{}, fmt.Errorf("%w: timeout_seconds must not be negative", errInvalidSubmission)
	}

	opts := batch.SubmitOptions{
		UserID:      req.UserID,
		Priority:    req.Priority,
		CallbackURL: req.CallbackURL,
		MaxRetries:  req.MaxRetries,
		Timeout:     time.Duration(req.TimeoutSeconds) * time.Second,
	}
	return items, opts, nil
}
