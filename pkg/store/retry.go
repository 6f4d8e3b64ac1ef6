package store

import (
	"context"
	"errors"
	"time"

	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
)

// Connection retry defaults for network backends.
const (
	DefaultConnectAttempts = 3
	DefaultConnectDelay    = 500 * time.Millisecond
)

// RetryableError marks a failure worth another attempt, such as a refused
// connection while a database container is still starting.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped in [RetryableError] are retried; anything else is
// returned at once. Returns the last error, or ctx.Err() if cancelled
// while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// dial opens a network store with retries. Connection failures
// (PERSISTENCE) are retried; configuration errors are not.
func dial(ctx context.Context, open func() (Store, error)) (Store, error) {
	var st Store
	err := Retry(ctx, DefaultConnectAttempts, DefaultConnectDelay, func() error {
		s, err := open()
		if err != nil {
			if seesawerrors.Is(err, seesawerrors.ErrCodePersistence) {
				return &RetryableError{Err: err}
			}
			return err
		}
		st = s
		return nil
	})
	var re *RetryableError
	if errors.As(err, &re) {
		return nil, re.Err
	}
	return st, err
}
