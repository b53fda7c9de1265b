package processor

import "errors"

var (
	// ErrValidation marks input that can never be enhanced as given.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks a missing template or model mapping.
	ErrConfiguration = errors.New("configuration error")
)

// IsPermanent reports whether retrying err cannot change the outcome.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)
}
