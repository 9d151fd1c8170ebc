package fetch

import (
	"context"
	"time"
)

// retryPolicy bounds transient-failure retries. Direct fetches run inline in
// request handling, so the delays are short.
type retryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		MaxAttempts:   3,
		InitialDelay:  250 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// retry executes fn with exponential backoff until it succeeds, the attempts
// run out, shouldRetry rejects the error, or the context is cancelled.
func retry[T any](ctx context.Context, p retryPolicy, shouldRetry func(error) bool, fn func() (T, error)) (T, error) {
	var lastErr error
	var zero T

	delay := p.InitialDelay

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * p.BackoffFactor)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return zero, lastErr
}
