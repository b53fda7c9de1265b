package batch

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Pool is a fixed set of worker goroutines executing submitted tasks.
type Pool struct {
	tasks  chan func()
	size   int
	logger *zap.Logger

	// quit is closed by Shutdown. Submitters and idle workers select on it
	// instead of holding a lock across the send on tasks.
	quit      chan struct{}
	closeOnce sync.Once

	wg sync.WaitGroup
}

func NewPool(size int, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		tasks:  make(chan func()),
		quit:   make(chan struct{}),
		size:   size,
		logger: logger,
	}

	for w := 0; w < size; w++ {
		p.wg.Add(1)
		go p.worker(w)
	}

	return p
}

func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case task := <-p.tasks:
			p.run(workerID, task)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(workerID int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Recovered panic in pool task",
				zap.Int("worker_id", workerID),
				zap.Any("panic", r))
		}
	}()

	task()
}

// submit blocks until a worker accepts task, ctx ends or the pool is closed.
func (p *Pool) submit(ctx context.Context, task func()) error {
	select {
	case <-p.quit:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrPoolClosed
	}
}

// Shutdown stops accepting work and waits for in-flight tasks until ctx ends.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.quit) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pool shutdown: %w", ctx.Err())
	}
}

// Future is a handle to the eventual value of a task submitted to a Pool.
type Future[T any] struct {
	done  chan struct{}
	value T
}

// Wait blocks for the result until ctx ends. A finished result wins over a
// context that is already done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	default:
	}

	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit runs fn on p and returns a handle to its result. If fn panics the
// future completes with the zero value.
func Submit[T any](ctx context.Context, p *Pool, fn func() T) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}

	task := func() {
		defer close(f.done)
		f.value = fn()
	}

	if err := p.submit(ctx, task); err != nil {
		return nil, err
	}

	return f, nil
}
