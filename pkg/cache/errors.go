package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/streamstack/pkg/httputil"
)

// ErrUnavailable means a remote backend did not answer.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a backend failure worth another attempt.
type RetryableError = httputil.RetryableError

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or an error it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

const connectAttempts = 3

// retryDelay is the first backoff delay; tests shorten it.
var retryDelay = time.Second

// RetryWithBackoff runs fn up to three times, doubling the wait after each
// retryable failure starting from one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, connectAttempts, retryDelay, fn)
}
