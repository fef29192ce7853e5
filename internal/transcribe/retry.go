package transcribe

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultAttempts bounds retries for transient failures.
	DefaultAttempts = 3
	// DefaultBaseDelay is the first backoff delay; it doubles per attempt.
	DefaultBaseDelay = 2 * time.Second
)

type retryBackend struct {
	inner     Backend
	attempts  int
	baseDelay time.Duration
}

// WithRetry wraps a backend with bounded retries for transient failures.
// Quota errors and context cancellation abort without retrying.
func WithRetry(inner Backend, attempts int, baseDelay time.Duration) Backend {
	if attempts < 1 {
		attempts = 1
	}
	return &retryBackend{inner: inner, attempts: attempts, baseDelay: baseDelay}
}

func (r *retryBackend) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	var lastErr error
	delay := r.baseDelay
	for attempt := 1; attempt <= r.attempts; attempt++ {
		segs, err := r.inner.Transcribe(ctx, audioPath)
		if err == nil {
			return segs, nil
		}
		if errors.Is(err, ErrQuota) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		if attempt == r.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, fmt.Errorf("after %d attempts: %w", r.attempts, lastErr)
}
