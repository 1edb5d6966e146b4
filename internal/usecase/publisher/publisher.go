// Package publisher fans the assembled tick collection out to every sink.
package publisher

import (
	"context"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

// Publisher writes ticks to its sinks in registration order.
type Publisher struct {
	sinks  []tickv1.Sink
	logger logger.Interface
}

// NewPublisher creates a publisher over sinks.
func NewPublisher(logger logger.Interface, sinks ...tickv1.Sink) *Publisher {
	return &Publisher{
		sinks:  sinks,
		logger: logger,
	}
}

// Sinks returns the registered sink names.
func (p *Publisher) Sinks() []string {
	names := make([]string, 0, len(p.sinks))
	for _, s := range p.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Publish stops at the first failing sink; later sinks are not written.
func (p *Publisher) Publish(ctx context.Context, ticks []tickv1.Tick) error {
	for _, s := range p.sinks {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.logger.DebugContext(ctx, "writing ticks", logger.Field{Key: "sink", Value: s.Name()})
		if err := s.Write(ctx, ticks); err != nil {
			tracer := errors.NewTracer("sink " + s.Name() + " failed").Wrap(err).WithSeverity(errors.SeverityCritical)
			p.logger.ErrorContext(ctx, tracer, logger.Field{Key: "sink", Value: s.Name()})
			return tracer
		}
	}

	return nil
}
