package batch

import "errors"

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrPoolClosed    = errors.New("worker pool is shut down")
	ErrServiceClosed = errors.New("batch service is shut down")
	ErrEmptyItems    = errors.New("job must contain at least one item")
)
