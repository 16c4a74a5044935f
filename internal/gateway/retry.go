package gateway

import (
	"context"
	"fmt"
	"time"
)

const (
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// retry runs fn up to attempts times with doubling backoff, stopping early when
// ctx is done.
func retry(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	delay := initialBackoff

	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			break
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
		delay = min(delay*2, maxBackoff)
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
