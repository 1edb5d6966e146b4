package bootstrap

import (
	"github.com/muhammadchandra19/tickfeed/internal/app/backfill"
	"github.com/muhammadchandra19/tickfeed/internal/app/client"
)

// App holds the top level runners.
type App struct {
	Orchestrator *backfill.Orchestrator
	Client       *client.Client
}

func (b *Bootstrap) registerApp() {
	cfg := b.Config.Backfill

	b.App.Orchestrator = backfill.NewOrchestrator(b.Usecase.Sessions, b.Logger, &backfill.Options{
		MaxBulkAttempts:     cfg.MaxBulkAttempts,
		MaxBackfillAttempts: cfg.MaxAttempts,
		InitialBackoff:      cfg.InitialBackoff,
		MaxBackoff:          cfg.MaxBackoff,
	})
	b.App.Client = client.NewClient(b.App.Orchestrator, b.Usecase.Publisher, b.Logger)
}
