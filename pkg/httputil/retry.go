package httputil

import (
	"context"
	"errors"
	"time"
)

// maxDelay caps the doubling backoff so a long install never sleeps for
// minutes between attempts against a slow origin.
const maxDelay = 30 * time.Second

// RetryableError marks a fetch failure as transient. [Fetcher] returns it for
// network errors and 5xx responses; anything else fails the asset at once.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, returns an error that is not a
// [RetryableError], or has run attempts times. The wait starts at delay and
// doubles up to maxDelay. A cancelled ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		lastErr = fn()
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = nextDelay(delay)
	}
	return lastErr
}

func nextDelay(d time.Duration) time.Duration {
	return min(d*2, maxDelay)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
