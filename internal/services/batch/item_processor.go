package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"go.uber.org/zap"
)

const maxRetryBackoff = 5 * time.Second

type Validator interface {
	Validate(input string) (string, error)
}

type Enhancer interface {
	Enhance(ctx context.Context, cfg *processor.Config, input, model, template string) (string, string, error)
}

// RetryPolicy bounds how often a failing item is re-attempted.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// ItemProcessor turns a single BatchItem into a BatchResult. It never
// returns an error; every failure is captured in the result.
type ItemProcessor struct {
	validator Validator
	enhancer  Enhancer
	config    *processor.Config
	logger    *zap.Logger
}

func NewItemProcessor(validator Validator, enhancer Enhancer, cfg *processor.Config, logger *zap.Logger) *ItemProcessor {
	return &ItemProcessor{
		validator: validator,
		enhancer:  enhancer,
		config:    cfg,
		logger:    logger,
	}
}

func (p *ItemProcessor) Process(ctx context.Context, item models.BatchItem, policy RetryPolicy) (result models.BatchResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Recovered panic while processing item",
				zap.String("item_id", item.ID),
				zap.Any("panic", r))
			result = models.NewFailedResult(item.ID, fmt.Errorf("internal error: %v", r), time.Since(start))
		}
	}()

	enhanced, templateUsed, err := p.process(ctx, item, policy)
	if err != nil {
		p.logger.Debug("Item failed",
			zap.String("item_id", item.ID),
			zap.Error(err))
		return models.NewFailedResult(item.ID, err, time.Since(start))
	}

	return models.NewSuccessResult(item.ID, enhanced, templateUsed, time.Since(start))
}

func (p *ItemProcessor) process(ctx context.Context, item models.BatchItem, policy RetryPolicy) (string, string, error) {
	prompt, err := p.validator.Validate(item.Prompt)
	if err != nil {
		return "", "", err
	}

	model := item.Model
	if model == "" {
		model = processor.DefaultModel
	}

	backoff := policy.Backoff
	for attempt := 0; ; attempt++ {
		enhanced, templateUsed, err := p.enhance(ctx, prompt, model, item.Template)
		if err == nil {
			return enhanced, templateUsed, nil
		}

		if processor.IsPermanent(err) || attempt >= policy.MaxRetries || ctx.Err() != nil {
			return "", "", err
		}

		p.logger.Debug("Retrying item",
			zap.String("item_id", item.ID),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		if !sleep(ctx, backoff) {
			return "", "", err
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func (p *ItemProcessor) enhance(ctx context.Context, prompt, model, template string) (enhanced, templateUsed string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enhancer panic: %v", r)
		}
	}()

	enhanced, templateUsed, err = p.enhancer.Enhance(ctx, p.config, prompt, model, template)
	if err != nil {
		return "", "", err
	}
	if enhanced == "" {
		return "", "", errors.New("enhancer returned an empty prompt")
	}

	return enhanced, templateUsed, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
