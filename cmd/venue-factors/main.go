// Command venue-factors estimates a scoring-environment factor for
// every venue in the match archive and stores the result for rating
// runs to pick up.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	app "github.com/PratikParm/IPL-Elo-Ratings/internal/app"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/config"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithConfig(cfg),
		app.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	factors, err := svc.EstimateVenueFactors(ctx)
	if err != nil {
		log.Error(ctx, "venue factor estimation failed", logger.Error(err))
		os.Exit(1)
	}

	for _, f := range factors.List() {
		log.Info(ctx, "venue factor",
			logger.String("venue", f.Venue),
			logger.Float64("factor", f.Factor),
			logger.Int("samples", f.Samples),
		)
	}
}
