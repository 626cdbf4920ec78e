package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure that [Retry] attempts again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn up to attempts times, doubling delay after each
// retryable failure. Other errors are returned at once, and a cancelled
// ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
			delay *= 2
		}
	}
	return lastErr
}
