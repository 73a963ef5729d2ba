/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides exponential backoff retry for judge and curator
// calls. Only errors the caller classifies as retryable (rate limits,
// overload, transient transport failures) are retried; malformed model output
// is never retried because re-asking will not fix a schema problem.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures backoff behavior for model calls.
type Config struct {
	// MaxAttempts is the number of additional attempts after the first
	// failure. 0 disables retrying entirely.
	MaxAttempts int
	// BaseBackoff is the initial backoff duration.
	BaseBackoff time.Duration
	// MaxBackoff caps the exponential backoff growth.
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to each backoff.
	MaxJitter time.Duration
}

// Validate checks that the configuration has sane values.
func (c Config) Validate() error {
	if c.MaxAttempts < 0 {
		return errors.New("max attempts cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig returns the retry policy used for judge calls: a single
// retry with a short backoff. Rate-limit recovery beyond that is the
// pipeline's signal to hand the case to a human, not to keep hammering.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 1,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// WithBackoff executes fn with exponential backoff, retrying only errors for
// which isRetryable returns true. A per-attempt timeout inside fn is
// retryable like any other transient failure; expiry of ctx itself is not.
func WithBackoff[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxAttempts; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if ctx.Err() != nil {
			return result, fmt.Errorf("%s aborted: %w", operation, ctx.Err())
		}
		if !isRetryable(lastErr) {
			return result, lastErr
		}
		if attempt >= cfg.MaxAttempts {
			break
		}

		// BaseBackoff * 2^attempt, capped at MaxBackoff.
		backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)

		var jitter time.Duration
		if cfg.MaxJitter > 0 {
			if n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter))); err == nil {
				jitter = time.Duration(n.Int64())
			}
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_attempts", cfg.MaxAttempts).
			With("backoff", backoff+jitter).
			With("error", lastErr.Error()).
			Warn("Transient failure, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	return result, fmt.Errorf("%s failed after %d attempts: %w", operation, cfg.MaxAttempts+1, lastErr)
}
