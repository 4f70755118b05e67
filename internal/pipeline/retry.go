package pipeline

import (
	"context"
	"time"
)

// RetryPolicy retries an operation with a fixed delay between attempts.
// MaxRetries counts additional attempts after the first, so an
// operation runs at most MaxRetries+1 times. The context is checked
// between attempts; cancellation aborts the loop instead of sleeping
// out the remaining delay.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// Do runs op until it succeeds or the retry budget is exhausted,
// returning the last observed error. onRetry, when set, is invoked
// before each additional attempt with the attempt number (1-based) and
// the error that triggered it.
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error, onRetry func(attempt int, err error)) error {
	attempts := p.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if onRetry != nil {
				onRetry(attempt, lastErr)
			}
			if err := sleepCtx(ctx, p.Delay); err != nil {
				return lastErr
			}
		}
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
