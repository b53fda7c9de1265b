package batch

import (
	"sync"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
)

type activeJob struct {
	job       *models.BatchJob
	startedAt time.Time
}

// Registry owns every job the engine knows about. A job id is in at most one
// of the queue, the active set and the completed set at any time.
type Registry struct {
	mu        sync.RWMutex
	queue     *JobQueue
	active    map[string]*activeJob
	completed map[string]*models.JobRecord

	changed chan struct{}
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		queue:     NewJobQueue(),
		active:    make(map[string]*activeJob),
		completed: make(map[string]*models.JobRecord),
		changed:   make(chan struct{}, 1),
		now:       time.Now,
	}
}

// Changed fires after an enqueue, completion or cancellation.
func (r *Registry) Changed() <-chan struct{} {
	return r.changed
}

func (r *Registry) notify() {
	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func (r *Registry) Enqueue(job *models.BatchJob) {
	r.mu.Lock()
	r.queue.Push(job)
	r.mu.Unlock()

	r.notify()
}

// Dispatch moves the oldest queued job to the active set if fewer than limit
// jobs are active.
func (r *Registry) Dispatch(limit int) (*models.BatchJob, time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.active) >= limit {
		return nil, time.Time{}, false
	}

	job, ok := r.queue.Pop()
	if !ok {
		return nil, time.Time{}, false
	}

	startedAt := r.now().UTC()
	r.active[job.JobID] = &activeJob{job: job, startedAt: startedAt}
	return job, startedAt, true
}

// Complete stores the final record of an active job. It reports false when
// the job is no longer active, i.e. it was cancelled while running.
func (r *Registry) Complete(record *models.JobRecord) bool {
	r.mu.Lock()
	if _, ok := r.active[record.JobID]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.active, record.JobID)
	r.completed[record.JobID] = record
	r.mu.Unlock()

	r.notify()
	return true
}

// Cancel forgets an active job. Queued and completed jobs are not affected.
func (r *Registry) Cancel(jobID string) bool {
	r.mu.Lock()
	if _, ok := r.active[jobID]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.active, jobID)
	r.mu.Unlock()

	r.notify()
	return true
}

func (r *Registry) Status(jobID string) (*models.JobStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if record, ok := r.completed[jobID]; ok {
		return record.Snapshot(), nil
	}

	if a, ok := r.active[jobID]; ok {
		startedAt := a.startedAt
		return &models.JobStatus{
			JobID:      jobID,
			Status:     models.StatusProcessing,
			TotalItems: len(a.job.Items),
			CreatedAt:  a.job.CreatedAt,
			UserID:     a.job.UserID,
			Priority:   a.job.Priority,
			StartedAt:  &startedAt,
		}, nil
	}

	if job, ok := r.queue.Get(jobID); ok {
		pos, _ := r.queue.Position(jobID)
		return &models.JobStatus{
			JobID:         jobID,
			Status:        models.StatusQueued,
			TotalItems:    len(job.Items),
			CreatedAt:     job.CreatedAt,
			UserID:        job.UserID,
			Priority:      job.Priority,
			QueuePosition: &pos,
		}, nil
	}

	return nil, ErrJobNotFound
}

// Cleanup drops completed records older than retention and returns how many
// were removed.
func (r *Registry) Cleanup(retention time.Duration) int {
	cutoff := r.now().Add(-retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, record := range r.completed {
		if record.CompletedAt.Before(cutoff) {
			delete(r.completed, id)
			removed++
		}
	}
	return removed
}

// Counts returns the number of active, completed and queued jobs.
func (r *Registry) Counts() (active, completed, queued int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.active), len(r.completed), r.queue.Len()
}
