package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"golang.org/x/sync/semaphore"
)

var errNotDispatched = errors.New("item was not dispatched")

// executor fans items out over the shared pool and gathers their results in
// input order.
type executor struct {
	pool      *Pool
	processor *ItemProcessor
}

// run processes items with at most limit in flight (limit <= 0 means bounded
// only by the pool). The returned slice always has len(items) entries. Items
// that could not be dispatched or did not finish before ctx ended are
// reported as failures, and the dispatch error is returned alongside.
func (e *executor) run(ctx context.Context, items []models.BatchItem, limit int, policy RetryPolicy) ([]models.BatchResult, error) {
	results := make([]models.BatchResult, len(items))
	futures := make([]*Future[models.BatchResult], len(items))

	var sem *semaphore.Weighted
	if limit > 0 {
		sem = semaphore.NewWeighted(int64(limit))
	}

	var dispatchErr error
	for i := range items {
		item := items[i]

		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				dispatchErr = err
				break
			}
		}

		f, err := Submit(ctx, e.pool, func() models.BatchResult {
			if sem != nil {
				defer sem.Release(1)
			}
			return e.processor.Process(ctx, item, policy)
		})
		if err != nil {
			if sem != nil {
				sem.Release(1)
			}
			dispatchErr = err
			break
		}
		futures[i] = f
	}

	for i, f := range futures {
		if f == nil {
			cause := errNotDispatched
			if dispatchErr != nil {
				cause = fmt.Errorf("%w: %w", errNotDispatched, dispatchErr)
			}
			results[i] = models.NewFailedResult(items[i].ID, cause, 0)
			continue
		}
		results[i] = await(ctx, f, items[i].ID)
	}

	if dispatchErr != nil {
		return results, fmt.Errorf("failed to dispatch items: %w", dispatchErr)
	}
	return results, nil
}

func await(ctx context.Context, f *Future[models.BatchResult], itemID string) models.BatchResult {
	result, err := f.Wait(ctx)
	if err != nil {
		return models.NewFailedResult(itemID, fmt.Errorf("item did not finish: %w", err), 0)
	}
	return checked(result, itemID)
}

func checked(result models.BatchResult, itemID string) models.BatchResult {
	if result.ID == "" && result.Timestamp.IsZero() {
		return models.NewFailedResult(itemID, errors.New("internal error: item task aborted"), 0)
	}
	return result
}
