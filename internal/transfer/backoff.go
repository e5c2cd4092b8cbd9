package transfer

import (
	"context"
	"time"
)

// Backoff computes the delay to wait before a retry attempt. Attempt
// numbering starts at 1 for the first retry.
type Backoff interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff doubles the delay on every attempt up to a cap
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

// Next returns the capped exponential delay for the given attempt
func (b ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := b.Initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= b.Max {
			return b.Max
		}
	}
	if delay > b.Max {
		return b.Max
	}
	return delay
}

// ConstantBackoff waits the same delay between every attempt
type ConstantBackoff struct {
	Delay time.Duration
}

// Next returns the fixed delay regardless of attempt
func (b ConstantBackoff) Next(attempt int) time.Duration {
	return b.Delay
}

// sleep waits for d or until the context is cancelled
func sleep(ctx context.Context, d time.Duration) error {
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
