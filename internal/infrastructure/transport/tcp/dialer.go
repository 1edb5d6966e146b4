// Package tcp implements the feed transport over plain TCP.
package tcp

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"time"

	feedv1 "github.com/muhammadchandra19/tickfeed/internal/domain/feed/v1"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

// Config describes the endpoint and its timeouts. A zero ReadTimeout waits
// indefinitely for each read.
type Config struct {
	Addr        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Dialer opens TCP connections to the feed.
type Dialer struct {
	config Config
	logger logger.Interface
}

// NewDialer creates a Dialer for config.
func NewDialer(config Config, logger logger.Interface) *Dialer {
	return &Dialer{config: config, logger: logger}
}

// Dial connects to the configured address.
func (d *Dialer) Dial(ctx context.Context) (feedv1.Conn, error) {
	nd := net.Dialer{Timeout: d.config.DialTimeout}

	c, err := nd.DialContext(ctx, "tcp", d.config.Addr)
	if err != nil {
		return nil, errors.NewErrorDetailsWithObject("failed to connect to feed", string(errors.FeedDialError), "dial", d.config.Addr).WithCause(err)
	}

	d.logger.DebugContext(ctx, "connected to feed", logger.Field{Key: "addr", Value: c.RemoteAddr().String()})
	return &conn{conn: c, readTimeout: d.config.ReadTimeout}, nil
}

type conn struct {
	conn        net.Conn
	readTimeout time.Duration
}

// Send writes the whole payload. Cancelling ctx aborts a blocked write.
func (c *conn) Send(ctx context.Context, payload []byte) error {
	stop := c.cancelOn(ctx)
	defer stop()

	if _, err := c.conn.Write(payload); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.NewErrorDetails("failed to send request", string(errors.FeedSendError), "send").WithCause(err)
	}
	return nil
}

// Receive reads whatever is available into buf. It returns io.EOF once the
// server closes the stream.
func (c *conn) Receive(ctx context.Context, buf []byte) (int, error) {
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return 0, errors.NewErrorDetails("failed to set read deadline", string(errors.FeedReceiveError), "receive").WithCause(err)
		}
	}

	stop := c.cancelOn(ctx)
	defer stop()

	n, err := c.conn.Read(buf)
	switch {
	case err == nil:
		return n, nil
	case stderrors.Is(err, io.EOF):
		return n, io.EOF
	case ctx.Err() != nil:
		return n, ctx.Err()
	default:
		return n, errors.NewErrorDetails("failed to read from feed", string(errors.FeedReceiveError), "receive").WithCause(err)
	}
}

func (c *conn) Close() error {
	return c.conn.Close()
}

// cancelOn expires the connection deadline when ctx is done so blocked I/O
// returns promptly.
func (c *conn) cancelOn(ctx context.Context) func() bool {
	return context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
}
