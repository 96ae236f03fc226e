// Package retry provides a bounded exponential-backoff call wrapper for the
// gateway operations the orchestrator must not skip. Retry exhaustion is
// reported as ErrExhausted so callers can escalate instead of silently
// continuing.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// ErrExhausted reports that all retry attempts failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Config holds retry behaviour
type Config struct {
	MaxAttempts int           // total attempts including the first
	BaseDelay   time.Duration // initial backoff interval
	MaxDelay    time.Duration // backoff ceiling
	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries everything.
	Retryable func(error) bool
}

// Client wraps operations with retry semantics
type Client struct {
	cfg Config
}

// New creates a retry client, applying defaults for zero fields
func New(cfg Config) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	return &Client{cfg: cfg}
}

// Do invokes op, retrying retryable failures with exponential backoff and
// jitter until MaxAttempts is reached. Non-retryable errors return
// immediately. Context cancellation aborts the wait between attempts.
func (c *Client) Do(ctx context.Context, name string, op func(context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.BaseDelay
	bo.MaxInterval = c.cfg.MaxDelay
	bo.RandomizationFactor = 0.5
	bo.MaxElapsedTime = 0 // attempt count is the only ceiling
	bo.Reset()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if c.cfg.Retryable != nil && !c.cfg.Retryable(lastErr) {
			return lastErr
		}

		if attempt == c.cfg.MaxAttempts {
			break
		}

		wait := bo.NextBackOff()
		logger.Warn(ctx).
			Err(lastErr).
			Str("op", name).
			Int("attempt", attempt).
			Dur("next_backoff", wait).
			Msg("Operation failed, retrying")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w: %w", name, c.cfg.MaxAttempts, ErrExhausted, lastErr)
}
