package main

import (
	"authorship-lab/infrastructure/storage"
	"authorship-lab/internal"
	"authorship-lab/repositories"
	"authorship-lab/services"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Experiment terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run keeps every deferred cleanup (ledger close, signal stop) ahead of os.Exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.LoadExperimentConfig()
	if err != nil {
		return exitConfig, err
	}
	kinds, err := config.FeatureKinds()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Author selection, which creates the output directory
	service := services.NewExperimentService(config, kinds, storage.NewFeatureStore(log), log)
	selection, err := service.Prepare()
	if err != nil {
		return exitRuntime, err
	}

	// 3. Run ledger (BadgerDB) inside the output directory
	db, err := badger.Open(buildBadgerOpts(config, log, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("ledger opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing the run ledger...")
		_ = db.Close()
	}()

	if config.InspectorPort != 0 && log.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		log.Info("Run ledger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.InspectorPort, endpoint))
		database.StartDebugServer(db, config.InspectorPort, endpoint, RunMapper)
	}

	// 4. Repetitions
	start := time.Now()
	report, err := service.Run(ctx, selection, repositories.NewRunRepository(db, log))
	if err != nil {
		return exitRuntime, err
	}
	log.Info("Experiment finished", "experiment", report.ExperimentID, "runs", len(report.Runs),
		"elapsed", time.Since(start))

	report.Print(os.Stdout, color.SupportColor())
	return exitOK, nil
}

func buildBadgerOpts(config internal.ExperimentConfig, log *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(filepath.Join(config.OutputDir, storage.LedgerDir))
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// RunMapper renders a ledger entry for the inspector page.
func RunMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	record, err := repositories.DecodeRun(val)
	if err != nil {
		row.Detail = "Error: decoding failed"
		return row
	}
	row.Type = "RUN"
	row.Detail = fmt.Sprintf("run %d, %d columns, authors %s, forest %.3f, margin %.3f",
		record.Run, record.Columns, strings.Join(record.TrainAuthors, ","),
		record.ForestAccuracy, record.MarginAccuracy)
	return row
}
