// Command ratings folds the full ball-by-ball archive into player
// ratings: it loads every match file, applies the stored venue
// factors and writes the snapshot trail plus final ratings to the
// database.
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

	if err := svc.RunRatings(ctx); err != nil {
		log.Error(ctx, "rating run failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "rating run stored", logger.String("run_id", svc.RunID()))
}
