// Package tick caches the assembled tick document in Redis and appends every
// tick to a Redis stream.
package tick

import (
	"context"
	"time"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/infrastructure/document"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/redis"
	"github.com/muhammadchandra19/tickfeed/pkg/util"
	v9 "github.com/redis/go-redis/v9"
)

// Config holds the fully qualified keys the cache writes to.
type Config struct {
	DocumentKey string
	Stream      string
	TTL         time.Duration
}

// Cache is a tickv1.Sink backed by Redis.
type Cache struct {
	client redis.Client
	config Config
	logger logger.Interface
}

// NewCache creates a Redis backed sink.
func NewCache(client redis.Client, config Config, logger logger.Interface) *Cache {
	return &Cache{
		client: client,
		config: config,
		logger: logger,
	}
}

// Name implements tickv1.Sink.
func (c *Cache) Name() string {
	return "redis"
}

// Write stores the rendered document under DocumentKey, then appends one
// stream entry per tick. An empty Stream skips the stream.
func (c *Cache) Write(ctx context.Context, ticks []tickv1.Tick) error {
	data, err := document.Render(ticks)
	if err != nil {
		return errors.NewErrorDetails("failed to render tick document", string(errors.DocumentWriteError), "render").WithCause(err)
	}

	if err := c.client.Set(ctx, c.config.DocumentKey, data, c.config.TTL); err != nil {
		c.logger.ErrorContext(ctx, err, logger.Field{Key: "key", Value: c.config.DocumentKey})
		return err
	}

	if c.config.Stream == "" {
		return nil
	}

	sessionID := util.GetSessionID(ctx)
	for _, t := range ticks {
		r := t.ToRecord()
		_, err := c.client.XAdd(ctx, &v9.XAddArgs{
			Stream: c.config.Stream,
			Values: map[string]any{
				"session":          sessionID,
				"symbol":           r.Symbol,
				"buysellindicator": r.BuySellIndicator,
				"quantity":         r.Quantity,
				"price":            r.Price,
				"packetSequence":   r.PacketSequence,
			},
		})
		if err != nil {
			c.logger.ErrorContext(ctx, err,
				logger.Field{Key: "stream", Value: c.config.Stream},
				logger.Field{Key: "sequence", Value: t.Sequence},
			)
			return err
		}
	}

	c.logger.InfoContext(ctx, "ticks cached",
		logger.Field{Key: "key", Value: c.config.DocumentKey},
		logger.Field{Key: "stream", Value: c.config.Stream},
		logger.Field{Key: "records", Value: len(ticks)},
	)
	return nil
}
