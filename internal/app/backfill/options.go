package backfill

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Options bounds the retry policy of both phases. A zero attempt limit
// retries until success or cancellation.
type Options struct {
	MaxBulkAttempts     int
	MaxBackfillAttempts int
	InitialBackoff      time.Duration
	MaxBackoff          time.Duration
}

// DefaultOptions returns the default retry policy.
func DefaultOptions() *Options {
	return &Options{
		MaxBulkAttempts:     5,
		MaxBackfillAttempts: 5,
		InitialBackoff:      500 * time.Millisecond,
		MaxBackoff:          5 * time.Second,
	}
}

func (o *Options) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.InitialBackoff
	b.MaxInterval = o.MaxBackoff
	return b
}

func (o *Options) retryOptions(maxAttempts int, notify backoff.Notify) []backoff.RetryOption {
	return []backoff.RetryOption{
		backoff.WithBackOff(o.newBackOff()),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	}
}
