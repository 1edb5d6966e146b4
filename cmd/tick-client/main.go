package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/tickfeed/internal/bootstrap"
	"github.com/muhammadchandra19/tickfeed/pkg/config"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/util"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	lg, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithOutputPaths([]string{"stderr", cfg.App.LogFile}),
	)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = util.WithSessionID(ctx, "")
	ctx = util.WithFeedAddr(ctx, cfg.Feed.Addr())

	lg.InfoContext(ctx, "starting tick client", logger.Field{Key: "config", Value: cfg.String()})

	b := &bootstrap.Bootstrap{}
	if err := b.Init(ctx, bootstrap.BootstrapConfig{Config: cfg, Logger: lg}); err != nil {
		lg.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "bootstrap"})
		return 1
	}
	defer b.Close(context.Background())

	ticks, err := b.App.Client.Run(ctx)
	if err != nil {
		lg.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "run"})
		return 1
	}

	for _, t := range ticks {
		fmt.Println(t.String())
	}

	lg.InfoContext(ctx, "tick client finished",
		logger.Field{Key: "records", Value: len(ticks)},
		logger.Field{Key: "output", Value: cfg.Output.Path},
	)
	return 0
}
