package httputil

import (
	"context"
	"errors"
	"time"
)

// Defaults applied by [Policy.Do] for zero fields.
const (
	DefaultAttempts = 3
	DefaultDelay    = 250 * time.Millisecond
	DefaultMaxDelay = 5 * time.Second
)

// RetryableError marks a transient failure (network error, 429, 5xx).
// [Policy.Do] only retries errors that wrap one.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy describes how a document fetch is retried. The delay doubles after
// every failed attempt and is capped at MaxDelay.
type Policy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration

	// OnRetry, when set, is called before sleeping with the attempt that just
	// failed (1-based) and its error.
	OnRetry func(attempt int, err error)
}

// Do runs fn until it succeeds, returns a permanent error, or the attempts
// are used up. The last error is returned, or ctx.Err() if ctx ends while
// waiting between attempts.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	p = p.withDefaults()
	delay := p.Delay
	var lastErr error

	for attempt := 1; attempt <= p.Attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) || attempt == p.Attempts {
			return lastErr
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay = min(delay*2, p.MaxDelay)
		}
	}
	return lastErr
}

func (p Policy) withDefaults() Policy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Delay <= 0 {
		p.Delay = DefaultDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.MaxDelay < p.Delay {
		p.MaxDelay = p.Delay
	}
	return p
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
