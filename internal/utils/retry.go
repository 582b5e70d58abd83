// Package utils provides common utility functions for the market data fetcher.
//
// This file contains the generic retrying-call helper used around remote
// calls that are idempotent and safe to repeat (exchange metadata and
// candle fetches). The retry policy lives entirely here so that parsing
// and normalization code stays pure and testable without network mocking.
package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// RetryConfig holds the retry policy for remote calls.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts uint64

	// InitialInterval is the delay before the first retry; subsequent delays
	// grow exponentially up to MaxInterval.
	InitialInterval time.Duration

	// MaxInterval caps the exponential backoff delay.
	MaxInterval time.Duration
}

// DefaultRetryConfig allows a handful of attempts with a short
// exponential backoff.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     5,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     10 * time.Second,
}

// Retry invokes op until it succeeds, the policy is exhausted, or the
// context is cancelled. The final failure is surfaced unchanged in kind.
//
// Retry does not inspect errors: callers must only wrap operations whose
// failures are transient (transport errors). Schema and configuration
// errors belong outside the retried operation, since repeating a
// malformed-payload parse cannot succeed.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func() (T, error)) (T, error) {
	if cfg.MaxAttempts == 0 {
		cfg = DefaultRetryConfig
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialInterval
	b.MaxInterval = cfg.MaxInterval

	attempt := 0
	return backoff.RetryWithData(func() (T, error) {
		attempt++
		res, err := op()
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("retryable call failed")
		}
		return res, err
	}, backoff.WithContext(backoff.WithMaxRetries(b, cfg.MaxAttempts-1), ctx))
}
