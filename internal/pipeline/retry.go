package pipeline

import (
	"context"
	"errors"
	"time"

	"manualqa/internal/extract"
)

// BackoffFunc decides whether err is worth retrying and how long to
// wait before attempt+1. base is the policy's base delay.
type BackoffFunc func(err error, attempt int, base time.Duration) (time.Duration, bool)

// Policy is a reusable retry policy: max attempts, a base delay, and a
// backoff function that classifies errors per call site.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     BackoffFunc // nil means DefaultBackoff
}

// Do runs fn up to MaxAttempts times, sleeping per the backoff function
// between attempts. It returns nil on the first success, the last error
// once the budget is exhausted or the error is not retryable, and the
// context error if cancelled while waiting. The returned count is the
// number of calls actually made, so callers can report how far a
// failing chunk got before giving up.
func (p Policy) Do(ctx context.Context, fn func() error) (int, error) {
	backoff := p.Backoff
	if backoff == nil {
		backoff = DefaultBackoff
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		attempts++
		lastErr = fn()
		if lastErr == nil {
			return attempts, nil
		}
		wait, retryable := backoff(lastErr, attempt, p.Delay)
		if !retryable || attempt == p.MaxAttempts-1 {
			break
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return attempts, ctx.Err()
		}
	}
	return attempts, lastErr
}

// DefaultBackoff implements the extraction call schedule: rate-limit
// responses back off linearly (base × (attempt+1)), transport and parse
// failures back off exponentially (base × 2^attempt), anything else is
// terminal.
func DefaultBackoff(err error, attempt int, base time.Duration) (time.Duration, bool) {
	var rateErr *extract.RateLimitError
	if errors.As(err, &rateErr) {
		return base * time.Duration(attempt+1), true
	}
	var transportErr *extract.TransportError
	var parseErr *extract.ParseError
	if errors.As(err, &transportErr) || errors.As(err, &parseErr) {
		return base * time.Duration(1<<uint(attempt)), true
	}
	return 0, false
}
