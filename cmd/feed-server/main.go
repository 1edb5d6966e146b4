package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/tickfeed/internal/feedserver"
	"github.com/muhammadchandra19/tickfeed/pkg/config"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	drop := make([]int32, 0, len(cfg.Server.Drop))
	for _, seq := range cfg.Server.Drop {
		drop = append(drop, int32(seq))
	}

	server := feedserver.NewServer(feedserver.Config{
		Addr:  cfg.Server.Addr(),
		Ticks: feedserver.Generate(cfg.Server.Ticks, uint64(cfg.Server.Seed)),
		Drop:  drop,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_server"})
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_server"})
	}
}
