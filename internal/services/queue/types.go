package queue

import (
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
)

const EventJobCompleted = "job.completed"

type JobSubmitter interface {
	SubmitJob(items []models.BatchItem, opts batch.SubmitOptions) (string, error)
}

// JobEvent is the message published when a job reaches a terminal state.
// Per-item results are left out; consumers fetch them by job id.
type JobEvent struct {
	Event       string          `json:"event"`
	JobID       string          `json:"job_id"`
	Status      models.JobState `json:"status"`
	UserID      string          `json:"user_id,omitempty"`
	TotalItems  int             `json:"total_items"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	CompletedAt time.Time       `json:"completed_at"`
	Error       string          `json:"error,omitempty"`
}

func newJobEvent(record *models.JobRecord) JobEvent {
	return JobEvent{
		Event:       EventJobCompleted,
		JobID:       record.JobID,
		Status:      record.Status,
		UserID:      record.UserID,
		TotalItems:  record.TotalItems,
		Successful:  record.Successful,
		Failed:      record.Failed,
		CompletedAt: record.CompletedAt,
		Error:       record.Error,
	}
}
