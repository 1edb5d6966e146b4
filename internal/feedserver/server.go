// Package feedserver is a development ABX feed. It serves a fixed tick set,
// leaves a configurable set of sequences out of the bulk stream and answers
// resend requests for any sequence it holds.
package feedserver

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/protocol"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

// Config configures the server.
type Config struct {
	Addr  string
	Ticks []tickv1.Tick
	// Drop lists sequences omitted from the bulk stream.
	Drop []int32
	// FailResends makes the first N resend requests close without a reply.
	FailResends int
}

// Server is a TCP server speaking the ABX protocol.
type Server struct {
	config   Config
	logger   logger.Interface
	bySeq    map[int32]tickv1.Tick
	drop     map[int32]struct{}
	failures atomic.Int64

	listener net.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewServer creates a server for config. Ticks are served in the given order.
func NewServer(config Config, logger logger.Interface) *Server {
	s := &Server{
		config: config,
		logger: logger,
		bySeq:  make(map[int32]tickv1.Tick, len(config.Ticks)),
		drop:   make(map[int32]struct{}, len(config.Drop)),
	}
	for _, t := range config.Ticks {
		s.bySeq[t.Sequence] = t
	}
	for _, seq := range config.Drop {
		s.drop[seq] = struct{}{}
	}
	s.failures.Store(int64(config.FailResends))

	return s
}

// Start listens on the configured address and serves until Stop or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return errors.NewErrorDetailsWithObject("failed to listen", string(errors.GeneralInternalServerError), "listen", s.config.Addr).WithCause(err)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop(ctx)

	context.AfterFunc(ctx, func() { _ = ln.Close() })

	s.logger.Info("feed server started",
		logger.Field{Key: "addr", Value: ln.Addr().String()},
		logger.Field{Key: "ticks", Value: len(s.config.Ticks)},
		logger.Field{Key: "drop", Value: s.config.Drop},
	)
	return nil
}

// Addr returns the listening address. It is nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and waits for open connections to finish.
func (s *Server) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("feed server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("feed server stop timeout exceeded")
		return ctx.Err()
	}
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error(errors.TracerFromError(err), logger.Field{Key: "action", Value: "accept"})
			}
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

// handle serves request frames until the client disconnects. A bulk request
// ends the connection once the stream is written.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	remote := logger.Field{Key: "remote", Value: conn.RemoteAddr().String()}
	frame := make([]byte, 2)

	for {
		if _, err := io.ReadFull(conn, frame); err != nil {
			if !stderrors.Is(err, io.EOF) && ctx.Err() == nil {
				s.logger.Warn("failed to read request", remote, logger.Field{Key: "error", Value: err.Error()})
			}
			return
		}

		switch frame[0] {
		case protocol.CallStreamAll:
			s.logger.Info("stream all requested", remote)
			if err := s.streamAll(conn); err != nil {
				s.logger.Warn("failed to stream ticks", remote, logger.Field{Key: "error", Value: err.Error()})
			}
			return

		case protocol.CallResendPack:
			seq := int32(frame[1])
			s.logger.Info("resend requested", remote, logger.Field{Key: "sequence", Value: seq})

			if s.failures.Add(-1) >= 0 {
				s.logger.Warn("dropping resend request", remote, logger.Field{Key: "sequence", Value: seq})
				return
			}

			t, ok := s.bySeq[seq]
			if !ok {
				s.logger.Warn("unknown sequence", remote, logger.Field{Key: "sequence", Value: seq})
				return
			}
			if _, err := conn.Write(protocol.Encode(nil, t)); err != nil {
				s.logger.Warn("failed to resend tick", remote, logger.Field{Key: "error", Value: err.Error()})
				return
			}

		default:
			s.logger.Warn("unknown call type", remote, logger.Field{Key: "call", Value: frame[0]})
			return
		}
	}
}

func (s *Server) streamAll(w io.Writer) error {
	buf := make([]byte, 0, len(s.config.Ticks)*protocol.RecordSize)
	for _, t := range s.config.Ticks {
		if _, dropped := s.drop[t.Sequence]; dropped {
			continue
		}
		buf = protocol.Encode(buf, t)
	}

	_, err := w.Write(buf)
	return err
}
