// Package bootstrap wires the tick client from its configuration.
package bootstrap

import (
	"context"

	"github.com/muhammadchandra19/tickfeed/pkg/config"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/questdb"
	"github.com/muhammadchandra19/tickfeed/pkg/redis"
)

// Bootstrap holds every component of the tick client.
type Bootstrap struct {
	Config         *config.Config
	Logger         logger.Interface
	Infrastructure Infrastructure
	Usecase        Usecase
	App            App

	QuestDB questdb.QuestDBClient
	Redis   redis.Client
}

// BootstrapConfig is the input of Init.
type BootstrapConfig struct {
	Config *config.Config
	Logger logger.Interface
}

// Init connects the enabled backends and registers all components. On error
// anything already opened is closed.
func (b *Bootstrap) Init(ctx context.Context, config BootstrapConfig) error {
	b.Config = config.Config
	b.Logger = config.Logger

	if err := b.registerInfrastructure(ctx); err != nil {
		b.Close(ctx)
		return err
	}
	b.registerUsecase()
	b.registerApp()

	return nil
}

// Close releases the backend connections.
func (b *Bootstrap) Close(ctx context.Context) {
	if b.Infrastructure.Kafka != nil {
		if err := b.Infrastructure.Kafka.Close(); err != nil {
			b.Logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "close_kafka_writer"})
		}
	}

	if b.Redis != nil {
		if err := b.Redis.Disconnect(ctx); err != nil {
			b.Logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "close_redis_client"})
		}
	}

	if b.QuestDB != nil {
		b.QuestDB.Close()
	}
}
