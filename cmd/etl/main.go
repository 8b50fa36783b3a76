package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdrianaLegalReis/cartola-warehouse/internal/app"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/config"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/observability"
	"github.com/AdrianaLegalReis/cartola-warehouse/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.ConnectDB(ctx, cfg)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	pipeline, err := app.NewPipeline(cfg, db, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	summary, runErr := pipeline.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	if runErr != nil {
		logger.Error("pipeline run failed", "error", runErr)
		os.Exit(1)
	}

	logger.Info("pipeline run finished",
		"run_id", summary.RunID,
		"rounds_loaded", summary.RoundsLoaded,
		"matches_loaded", summary.MatchesLoaded,
		"scores_loaded", summary.ScoresLoaded,
		"skipped_rounds", summary.SkippedRounds,
		"warnings", len(summary.Warnings),
	)
}
