// Package backfill drives a full feed retrieval: a bulk transfer followed by
// one resend request per missing sequence.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/muhammadchandra19/tickfeed/internal/usecase/session"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

var (
	// ErrBulkExhausted is returned when no bulk session produced a record.
	ErrBulkExhausted = errors.New("bulk transfer attempts exhausted")

	// ErrBackfillExhausted is returned when a missing sequence could not be fetched.
	ErrBackfillExhausted = errors.New("backfill attempts exhausted")
)

// Orchestrator owns the run state and sequences the sessions.
type Orchestrator struct {
	sessions Sessions
	logger   logger.Interface
	options  *Options
}

// NewOrchestrator creates an orchestrator. A nil opts uses DefaultOptions.
func NewOrchestrator(sessions Sessions, logger logger.Interface, opts *Options) *Orchestrator {
	if opts == nil {
		opts = DefaultOptions()
	}

	return &Orchestrator{
		sessions: sessions,
		logger:   logger,
		options:  opts,
	}
}

// Run retrieves the feed until every discovered gap is filled. The returned
// state holds what was retrieved even when an error is returned.
func (o *Orchestrator) Run(ctx context.Context) (*session.State, error) {
	state := session.NewState()

	o.logger.InfoContext(ctx, "requesting data from ABX server")
	if err := o.bulk(ctx, state); err != nil {
		return state, err
	}

	if !state.Gaps.IsEmpty() {
		o.logger.InfoContext(ctx, "some packets missing", logger.Field{Key: "missing", Value: state.Gaps.Pending()})
	}

	for !state.Gaps.IsEmpty() {
		seq, _ := state.Gaps.Next()
		o.logger.InfoContext(ctx, "requesting missed packet", logger.Field{Key: "sequence", Value: seq})

		if err := o.backfill(ctx, state, seq); err != nil {
			return state, err
		}
	}

	o.logger.InfoContext(ctx, "all packets received", logger.Field{Key: "ticks", Value: len(state.Ticks)})
	return state, nil
}

func (o *Orchestrator) bulk(ctx context.Context, state *session.State) error {
	attempt := 0
	operation := func() (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, backoff.Permanent(err)
		}
		attempt++

		n, err := o.sessions.RequestAll(ctx, state)
		switch {
		case err != nil && session.IsFatal(err):
			return n, backoff.Permanent(err)
		case len(state.Ticks) > 0:
			if err != nil {
				o.logger.WarnContext(ctx, "bulk transfer interrupted, keeping received ticks",
					logger.Field{Key: "received", Value: n},
					logger.Field{Key: "error", Value: err.Error()},
				)
			}
			return n, nil
		case err == nil:
			return n, session.ErrNoData
		default:
			return n, err
		}
	}

	_, err := backoff.Retry(ctx, operation, o.options.retryOptions(o.options.MaxBulkAttempts, o.notify(ctx, "bulk", &attempt))...)
	return o.finalError(err, ErrBulkExhausted, attempt)
}

func (o *Orchestrator) backfill(ctx context.Context, state *session.State, seq int32) error {
	attempt := 0
	operation := func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		attempt++

		err := o.sessions.RequestOne(ctx, state, seq)
		if err != nil && session.IsFatal(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation, o.options.retryOptions(o.options.MaxBackfillAttempts, o.notify(ctx, "backfill", &attempt))...)
	if err != nil {
		return o.finalError(fmt.Errorf("sequence %d: %w", seq, err), ErrBackfillExhausted, attempt)
	}
	return nil
}

// finalError keeps fatal and cancellation errors as they are and tags
// everything else as exhaustion of the phase.
func (o *Orchestrator) finalError(err, exhausted error, attempts int) error {
	if err == nil {
		return nil
	}
	if session.IsFatal(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w after %d attempts: %w", exhausted, attempts, err)
}

func (o *Orchestrator) notify(ctx context.Context, phase string, attempt *int) backoff.Notify {
	return func(err error, next time.Duration) {
		o.logger.WarnContext(ctx, "attempt failed, retrying",
			logger.Field{Key: "phase", Value: phase},
			logger.Field{Key: "attempt", Value: *attempt},
			logger.Field{Key: "retry_in", Value: next.String()},
			logger.Field{Key: "error", Value: err.Error()},
		)
	}
}
