package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"go.uber.org/zap"
)

// Notifier delivers a finished job record to a callback URL.
type Notifier interface {
	Notify(ctx context.Context, callbackURL string, payload any) error
}

// EventPublisher announces finished jobs to an external sink.
type EventPublisher interface {
	PublishJobCompleted(ctx context.Context, record *models.JobRecord) error
}

type dispatcher struct {
	registry  *Registry
	executor  *executor
	notifier  Notifier
	publisher EventPublisher
	logger    *zap.Logger

	maxConcurrentBatches int
	retention            time.Duration
	cleanupInterval      time.Duration
	retryBackoff         time.Duration

	jobs sync.WaitGroup
}

// loop runs until ctx ends. Jobs are started with jobCtx so they can outlive
// the loop during shutdown.
func (d *dispatcher) loop(ctx, jobCtx context.Context) {
	ticker := time.NewTicker(d.cleanupInterval)
	defer ticker.Stop()

	d.logger.Info("Batch dispatcher started",
		zap.Int("max_concurrent_batches", d.maxConcurrentBatches))

	for {
		d.cleanup()
		d.dispatchReady(jobCtx)

		select {
		case <-ctx.Done():
			d.logger.Info("Batch dispatcher stopping")
			return
		case <-d.registry.Changed():
		case <-ticker.C:
		}
	}
}

func (d *dispatcher) cleanup() {
	if removed := d.registry.Cleanup(d.retention); removed > 0 {
		d.logger.Info("Cleaned up expired jobs", zap.Int("removed", removed))
	}
}

func (d *dispatcher) dispatchReady(ctx context.Context) {
	for {
		job, startedAt, ok := d.registry.Dispatch(d.maxConcurrentBatches)
		if !ok {
			return
		}

		d.jobs.Add(1)
		go d.runJob(ctx, job, startedAt)
	}
}

func (d *dispatcher) runJob(base context.Context, job *models.BatchJob, startedAt time.Time) {
	defer d.jobs.Done()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if job.Timeout > 0 {
		ctx, cancel = context.WithTimeout(base, job.Timeout)
	} else {
		ctx, cancel = context.WithCancel(base)
	}
	defer cancel()

	d.logger.Info("Processing job",
		zap.String("job_id", job.JobID),
		zap.Int("items", len(job.Items)))

	policy := RetryPolicy{MaxRetries: job.MaxRetries, Backoff: d.retryBackoff}
	results, err := d.executor.run(ctx, job.Items, 0, policy)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	record := newJobRecord(job, startedAt, results, err)

	if !d.registry.Complete(record) {
		d.logger.Info("Dropping result of cancelled job", zap.String("job_id", job.JobID))
		return
	}

	if record.Status == models.StatusFailed {
		d.logger.Error("Job failed",
			zap.String("job_id", job.JobID),
			zap.Int("successful", record.Successful),
			zap.Int("failed", record.Failed),
			zap.String("error", record.Error))
	} else {
		d.logger.Info("Job completed",
			zap.String("job_id", job.JobID),
			zap.Int("successful", record.Successful),
			zap.Int("failed", record.Failed))
	}

	d.deliver(context.WithoutCancel(base), job, record)
}

func (d *dispatcher) deliver(ctx context.Context, job *models.BatchJob, record *models.JobRecord) {
	if job.CallbackURL != "" && d.notifier != nil {
		if err := d.notifier.Notify(ctx, job.CallbackURL, record); err != nil {
			d.logger.Error("Failed to send callback",
				zap.String("job_id", job.JobID),
				zap.String("callback_url", job.CallbackURL),
				zap.Error(err))
		} else {
			d.logger.Info("Callback sent",
				zap.String("job_id", job.JobID),
				zap.String("callback_url", job.CallbackURL))
		}
	}

	if d.publisher != nil {
		if err := d.publisher.PublishJobCompleted(ctx, record); err != nil {
			d.logger.Error("Failed to publish job event",
				zap.String("job_id", job.JobID),
				zap.Error(err))
		}
	}
}

func newJobRecord(job *models.BatchJob, startedAt time.Time, results []models.BatchResult, err error) *models.JobRecord {
	successful, failed := models.CountResults(results)

	record := &models.JobRecord{
		JobID:       job.JobID,
		Status:      models.StatusCompleted,
		UserID:      job.UserID,
		Priority:    job.Priority,
		CreatedAt:   job.CreatedAt,
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
		TotalItems:  len(job.Items),
		Successful:  successful,
		Failed:      failed,
		Results:     results,
	}

	// A timed-out job still completes; its unfinished items carry the failure.
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		record.Error = fmt.Sprintf("job timed out after %s", job.Timeout)
	default:
		record.Status = models.StatusFailed
		record.Error = err.Error()
	}

	return record
}
