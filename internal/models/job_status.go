package models

import "time"

type JobState string

const (
	StatusQueued     JobState = "queued"
	StatusProcessing JobState = "processing"
	StatusCompleted  JobState = "completed"
	StatusFailed     JobState = "failed"
)

// JobStatus is a point-in-time snapshot of a job returned by status queries.
type JobStatus struct {
	JobID         string        `json:"job_id"`
	Status        JobState      `json:"status"`
	TotalItems    int           `json:"total_items"`
	CreatedAt     time.Time     `json:"created_at"`
	UserID        string        `json:"user_id,omitempty"`
	Priority      int           `json:"priority"`
	QueuePosition *int          `json:"queue_position,omitempty"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	Successful    int           `json:"successful"`
	Failed        int           `json:"failed"`
	Results       []BatchResult `json:"results,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// JobRecord is the terminal record kept for a finished job. It is also the
// payload delivered to callback sinks.
type JobRecord struct {
	JobID       string        `json:"job_id"`
	Status      JobState      `json:"status"`
	UserID      string        `json:"user_id,omitempty"`
	Priority    int           `json:"priority"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	TotalItems  int           `json:"total_items"`
	Successful  int           `json:"successful"`
	Failed      int           `json:"failed"`
	Results     []BatchResult `json:"results"`
	Error       string        `json:"error,omitempty"`
}

// Snapshot converts the record into a status response. Results are copied
// so callers never share the registry's slice.
func (r *JobRecord) Snapshot() *JobStatus {
	startedAt := r.StartedAt
	completedAt := r.CompletedAt
	results := make([]BatchResult, len(r.Results))
	copy(results, r.Results)

	return &JobStatus{
		JobID:       r.JobID,
		Status:      r.Status,
		TotalItems:  r.TotalItems,
		CreatedAt:   r.CreatedAt,
		UserID:      r.UserID,
		Priority:    r.Priority,
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
		Successful:  r.Successful,
		Failed:      r.Failed,
		Results:     results,
		Error:       r.Error,
	}
}

// EngineStats reports the batch engine's current load.
type EngineStats struct {
	ActiveJobs           int `json:"active_jobs"`
	CompletedJobs        int `json:"completed_jobs"`
	QueueSize            int `json:"queue_size"`
	MaxWorkers           int `json:"max_workers"`
	MaxConcurrentBatches int `json:"max_concurrent_batches"`
}
