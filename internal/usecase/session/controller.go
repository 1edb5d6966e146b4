// Package session runs single request/response exchanges against the feed.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	feedv1 "github.com/muhammadchandra19/tickfeed/internal/domain/feed/v1"
	"github.com/muhammadchandra19/tickfeed/internal/protocol"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

// Controller opens one connection per request and records what it receives
// into a State.
type Controller struct {
	dialer  feedv1.Dialer
	logger  logger.Interface
	options *Options
}

// NewController creates a controller dialing through dialer.
func NewController(dialer feedv1.Dialer, logger logger.Interface, opts ...Option) *Controller {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Controller{
		dialer:  dialer,
		logger:  logger,
		options: options,
	}
}

// RequestAll asks for the full feed and consumes records until the server
// closes the stream. It returns the number of records appended to state.
//
// Records received before a failure stay in state. A record failing
// validation returns *CorruptRecordError and nothing after it is kept.
func (c *Controller) RequestAll(ctx context.Context, state *State) (int, error) {
	conn, err := c.dialer.Dial(ctx)
	if err != nil {
		return 0, &TransportError{Op: OpDial, Err: err}
	}
	defer c.close(ctx, conn)

	if err := conn.Send(ctx, protocol.StreamAllRequest()); err != nil {
		return 0, &TransportError{Op: OpSend, Err: err}
	}
	c.logger.InfoContext(ctx, "stream all request sent")

	buf := make([]byte, c.options.ReadBufferSize)
	buffered := 0
	received := 0

	for {
		n, readErr := conn.Receive(ctx, buf[buffered:])
		buffered += n

		offset := 0
		for buffered-offset >= protocol.RecordSize {
			tick := protocol.Decode(buf[offset:])
			if v := protocol.Validate(tick); !v.Valid() {
				return received, &CorruptRecordError{Tick: tick, Violation: v}
			}

			// A gap that cannot be requested fails the run before it is tracked.
			if next := state.Gaps.Expected(); int64(tick.Sequence) > next && tick.Sequence-1 > protocol.MaxResendSequence {
				return received, fmt.Errorf("%w: gap %d..%d", ErrSequenceOutOfRange, next, tick.Sequence-1)
			}

			state.Gaps.Observe(tick.Sequence)
			state.Ticks = append(state.Ticks, tick)
			received++
			offset += protocol.RecordSize

			c.logger.DebugContext(ctx, "tick received", logger.Field{Key: "tick", Value: tick.String()})
		}
		// Keep an incomplete trailing record for the next read.
		buffered = copy(buf, buf[offset:buffered])

		if readErr == nil {
			continue
		}

		if !errors.Is(readErr, io.EOF) {
			return received, &TransportError{Op: OpReceive, Err: readErr}
		}

		if buffered > 0 {
			c.logger.WarnContext(ctx, "discarding incomplete trailing record", logger.Field{Key: "bytes", Value: buffered})
		}
		if received == 0 {
			return 0, ErrNoData
		}

		c.logger.InfoContext(ctx, "stream closed by server",
			logger.Field{Key: "received", Value: received},
			logger.Field{Key: "missing", Value: state.Gaps.Len()},
		)
		return received, nil
	}
}

// RequestOne asks for the record with sequence seq. On success the record is
// appended to state and seq is resolved; on any failure seq stays pending.
func (c *Controller) RequestOne(ctx context.Context, state *State, seq int32) error {
	if seq < 1 || seq > protocol.MaxResendSequence {
		return fmt.Errorf("%w: %d", ErrSequenceOutOfRange, seq)
	}

	conn, err := c.dialer.Dial(ctx)
	if err != nil {
		return &TransportError{Op: OpDial, Err: err}
	}
	defer c.close(ctx, conn)

	if err := conn.Send(ctx, protocol.ResendRequest(seq)); err != nil {
		return &TransportError{Op: OpSend, Err: err}
	}
	c.logger.InfoContext(ctx, "resend request sent", logger.Field{Key: "sequence", Value: seq})

	buf := make([]byte, protocol.RecordSize)
	if _, err := io.ReadFull(&connReader{ctx: ctx, conn: conn}, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoData
		}
		return &TransportError{Op: OpReceive, Err: err}
	}

	tick := protocol.Decode(buf)
	if v := protocol.Validate(tick); !v.Valid() {
		return &CorruptRecordError{Tick: tick, Violation: v}
	}

	if tick.Sequence != seq {
		return fmt.Errorf("%w: requested %d, received %d", ErrUnexpectedSequence, seq, tick.Sequence)
	}

	state.Ticks = append(state.Ticks, tick)
	state.Gaps.Resolve(seq)

	c.logger.DebugContext(ctx, "tick received", logger.Field{Key: "tick", Value: tick.String()})
	return nil
}

func (c *Controller) close(ctx context.Context, conn feedv1.Conn) {
	if err := conn.Close(); err != nil {
		c.logger.WarnContext(ctx, "failed to close feed connection", logger.Field{Key: "error", Value: err.Error()})
	}
}

// connReader adapts a Conn to io.Reader for a fixed context.
type connReader struct {
	ctx  context.Context
	conn feedv1.Conn
}

func (r *connReader) Read(p []byte) (int, error) {
	return r.conn.Receive(r.ctx, p)
}
