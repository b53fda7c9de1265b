package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs batch jobs in the background and ad-hoc batches inline. Both
// paths share one worker pool.
type Service struct {
	cfg      config.BatchConfig
	pool     *Pool
	registry *Registry
	executor *executor
	dispatch *dispatcher
	logger   *zap.Logger

	mu     sync.RWMutex
	closed bool

	stopLoop   context.CancelFunc
	cancelJobs context.CancelFunc
	loopDone   chan struct{}
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.dispatch.notifier = n
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.dispatch.publisher = p
	}
}

// SubmitOptions carries the per-job settings of SubmitJob. Zero values fall
// back to the service defaults.
type SubmitOptions struct {
	UserID      string
	Priority    int
	CallbackURL string
	MaxRetries  *int
	Timeout     time.Duration
}

func NewService(
	cfg config.BatchConfig,
	promptConfig *processor.Config,
	validator Validator,
	enhancer Enhancer,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	cfg = withDefaults(cfg)

	pool := NewPool(cfg.MaxWorkers, logger)
	exec := &executor{
		pool:      pool,
		processor: NewItemProcessor(validator, enhancer, promptConfig, logger),
	}
	registry := NewRegistry()

	s := &Service{
		cfg:      cfg,
		pool:     pool,
		registry: registry,
		executor: exec,
		logger:   logger,
		dispatch: &dispatcher{
			registry:             registry,
			executor:             exec,
			logger:               logger,
			maxConcurrentBatches: cfg.MaxConcurrentBatches,
			retention:            cfg.RetentionWindow,
			cleanupInterval:      cfg.CleanupInterval,
			retryBackoff:         cfg.RetryBackoff,
		},
		loopDone: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	s.stopLoop = stopLoop
	s.cancelJobs = cancelJobs

	go func() {
		defer close(s.loopDone)
		s.dispatch.loop(loopCtx, jobCtx)
	}()

	logger.Info("Batch service started",
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.Int("max_concurrent_batches", cfg.MaxConcurrentBatches))

	return s
}

func withDefaults(cfg config.BatchConfig) config.BatchConfig {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = config.DefaultMaxWorkers()
	}
	if cfg.MaxConcurrentBatches <= 0 {
		cfg.MaxConcurrentBatches = 5
	}
	if cfg.MaxConcurrentItems <= 0 {
		cfg.MaxConcurrentItems = 10
	}
	if cfg.RetentionWindow <= 0 {
		cfg.RetentionWindow = time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.DefaultJobTimeout <= 0 {
		cfg.DefaultJobTimeout = 300 * time.Second
	}
	if cfg.DefaultMaxRetries < 0 {
		cfg.DefaultMaxRetries = 0
	}
	return cfg
}

// SubmitJob queues items for background processing and returns the job id.
// It never blocks on processing.
func (s *Service) SubmitJob(items []models.BatchItem, opts SubmitOptions) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyItems
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrServiceClosed
	}

	maxRetries := s.cfg.DefaultMaxRetries
	if opts.MaxRetries != nil && *opts.MaxRetries >= 0 {
		maxRetries = *opts.MaxRetries
	}
	timeout := s.cfg.DefaultJobTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	job := &models.BatchJob{
		JobID:       uuid.NewString(),
		Items:       normalizeItems(items),
		CreatedAt:   time.Now().UTC(),
		UserID:      opts.UserID,
		Priority:    opts.Priority,
		CallbackURL: opts.CallbackURL,
		MaxRetries:  maxRetries,
		Timeout:     timeout,
	}

	s.registry.Enqueue(job)

	s.logger.Info("Submitted batch job",
		zap.String("job_id", job.JobID),
		zap.Int("items", len(job.Items)),
		zap.String("user_id", job.UserID))

	return job.JobID, nil
}

func (s *Service) GetJobStatus(jobID string) (*models.JobStatus, error) {
	return s.registry.Status(jobID)
}

// CancelJob forgets a running job. Its work still runs to completion but the
// result is discarded. Queued and finished jobs cannot be cancelled.
func (s *Service) CancelJob(jobID string) bool {
	if !s.registry.Cancel(jobID) {
		return false
	}
	s.logger.Info("Cancelled active job", zap.String("job_id", jobID))
	return true
}

// ProcessBatch enhances prompts inline and returns one result per prompt in
// input order.
func (s *Service) ProcessBatch(ctx context.Context, prompts []string, model, template, userID string, maxConcurrent int) ([]models.BatchResult, error) {
	items := make([]models.BatchItem, len(prompts))
	for i, prompt := range prompts {
		items[i] = models.BatchItem{
			ID:       fmt.Sprintf("item_%d", i),
			Prompt:   prompt,
			Model:    model,
			Template: template,
		}
	}

	s.logger.Debug("Processing batch inline",
		zap.Int("items", len(items)),
		zap.String("user_id", userID))

	return s.ProcessItems(ctx, items, maxConcurrent)
}

// ProcessItems is the item-level form of ProcessBatch.
func (s *Service) ProcessItems(ctx context.Context, items []models.BatchItem, maxConcurrent int) ([]models.BatchResult, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return nil, ErrServiceClosed
	}

	if len(items) == 0 {
		return []models.BatchResult{}, nil
	}
	if maxConcurrent <= 0 {
		maxConcurrent = s.cfg.MaxConcurrentItems
	}

	policy := RetryPolicy{MaxRetries: s.cfg.DefaultMaxRetries, Backoff: s.cfg.RetryBackoff}
	return s.executor.run(ctx, normalizeItems(items), maxConcurrent, policy)
}

// Shutdown stops the dispatcher, waits for running jobs and the pool until
// ctx ends, then cancels whatever is left. Queued jobs are dropped.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.stopLoop()
	<-s.loopDone

	if _, _, queued := s.registry.Counts(); queued > 0 {
		s.logger.Warn("Dropping queued jobs on shutdown", zap.Int("queued", queued))
	}

	jobsDone := make(chan struct{})
	go func() {
		s.dispatch.jobs.Wait()
		close(jobsDone)
	}()

	var err error
	select {
	case <-jobsDone:
	case <-ctx.Done():
		err = fmt.Errorf("timed out waiting for running jobs: %w", ctx.Err())
	}
	s.cancelJobs()

	if poolErr := s.pool.Shutdown(ctx); poolErr != nil && err == nil {
		err = poolErr
	}

	if err != nil {
		s.logger.Warn("Batch service shut down with pending work", zap.Error(err))
		return err
	}

	s.logger.Info("Batch service stopped")
	return nil
}

// normalizeItems copies items and fills in missing ids.
func normalizeItems(items []models.BatchItem) []models.BatchItem {
	out := make([]models.BatchItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = fmt.Sprintf("item_%d", i)
		}
		out[i] = item
	}
	return out
}
