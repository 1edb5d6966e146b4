// Package client runs one complete retrieval: fetch the feed, order the
// ticks and hand them to the sinks.
package client

import (
	"context"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/usecase/assembler"
	"github.com/muhammadchandra19/tickfeed/internal/usecase/session"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

//go:generate mockgen -source=client.go -destination=mock/client_mock.go -package=mock

// Retriever fetches the full feed. *backfill.Orchestrator implements it.
type Retriever interface {
	Run(ctx context.Context) (*session.State, error)
}

// Publisher delivers the ordered ticks. *publisher.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context, ticks []tickv1.Tick) error
}

// Client ties retrieval to publication.
type Client struct {
	retriever Retriever
	publisher Publisher
	logger    logger.Interface
}

// NewClient creates a client.
func NewClient(retriever Retriever, publisher Publisher, logger logger.Interface) *Client {
	return &Client{
		retriever: retriever,
		publisher: publisher,
		logger:    logger,
	}
}

// Run returns the published ticks. Nothing is published when retrieval
// fails; the partial ticks are still returned for diagnostics.
func (c *Client) Run(ctx context.Context) ([]tickv1.Tick, error) {
	state, err := c.retriever.Run(ctx)
	if err != nil {
		var partial []tickv1.Tick
		if state != nil {
			partial = assembler.Assemble(state.Ticks)
			c.logger.WarnContext(ctx, "retrieval incomplete, nothing written",
				logger.Field{Key: "received", Value: len(state.Ticks)},
				logger.Field{Key: "missing", Value: state.Gaps.Pending()},
			)
		}
		return partial, err
	}

	ticks := assembler.Assemble(state.Ticks)

	c.logger.InfoContext(ctx, "writing ticks", logger.Field{Key: "records", Value: len(ticks)})
	if err := c.publisher.Publish(ctx, ticks); err != nil {
		return ticks, err
	}

	return ticks, nil
}
