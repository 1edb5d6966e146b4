package bootstrap

import (
	"context"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/infrastructure/document"
	kafkaTick "github.com/muhammadchandra19/tickfeed/internal/infrastructure/kafka/tick"
	questdbTick "github.com/muhammadchandra19/tickfeed/internal/infrastructure/questdb/tick"
	redisTick "github.com/muhammadchandra19/tickfeed/internal/infrastructure/redis/tick"
	"github.com/muhammadchandra19/tickfeed/internal/infrastructure/transport/tcp"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/questdb"
	"github.com/muhammadchandra19/tickfeed/pkg/redis"
)

// Infrastructure holds the transport and the sinks, in publish order.
type Infrastructure struct {
	Dialer *tcp.Dialer

	Document *document.Writer
	Ticks    *questdbTick.Repository
	Kafka    *kafkaTick.Publisher
	Cache    *redisTick.Cache

	Sinks []tickv1.Sink
}

func (b *Bootstrap) registerInfrastructure(ctx context.Context) error {
	cfg := b.Config

	b.Infrastructure.Dialer = tcp.NewDialer(tcp.Config{
		Addr:        cfg.Feed.Addr(),
		DialTimeout: cfg.Feed.DialTimeout,
		ReadTimeout: cfg.Feed.ReadTimeout,
	}, b.Logger)

	if cfg.QuestDB.Enabled {
		client, err := questdb.NewClient(ctx, cfg.QuestDB.Config)
		if err != nil {
			return errors.NewTracer("failed to initialize QuestDB client").Wrap(err).WithCode(errors.QuestDBStoreError)
		}
		b.QuestDB = client

		b.Infrastructure.Ticks = questdbTick.NewRepository(client, questdb.NewTransaction(client), b.Logger)
		b.Infrastructure.Sinks = append(b.Infrastructure.Sinks, b.Infrastructure.Ticks)
	}

	if cfg.Kafka.Enabled {
		b.Infrastructure.Kafka = kafkaTick.NewPublisher(kafkaTick.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, b.Logger)
		b.Infrastructure.Sinks = append(b.Infrastructure.Sinks, b.Infrastructure.Kafka)
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(b.Logger, &cfg.Redis.Config)
		if err := client.Connect(ctx); err != nil {
			b.Logger.WarnContext(ctx, "redis unavailable, reconnecting", logger.Field{Key: "error", Value: err.Error()})
			if !client.Reconnect(ctx) {
				_ = client.Disconnect(ctx)
				return err
			}
		}
		b.Redis = client

		b.Infrastructure.Cache = redisTick.NewCache(client, redisTick.Config{
			DocumentKey: cfg.Redis.Key(cfg.Redis.DocumentKey),
			Stream:      cfg.Redis.Key(cfg.Redis.Stream),
			TTL:         cfg.Redis.DefaultTTL,
		}, b.Logger)
		b.Infrastructure.Sinks = append(b.Infrastructure.Sinks, b.Infrastructure.Cache)
	}

	// The document goes last so a failing sink leaves no document behind.
	b.Infrastructure.Document = document.NewWriter(cfg.Output.Path, b.Logger)
	b.Infrastructure.Sinks = append(b.Infrastructure.Sinks, b.Infrastructure.Document)

	b.Logger.InfoContext(ctx, "infrastructure registered",
		logger.Field{Key: "feed", Value: cfg.Feed.Addr()},
		logger.Field{Key: "sinks", Value: len(b.Infrastructure.Sinks)},
	)
	return nil
}
