package main

import (
	"authorship-lab/grams"
	"authorship-lab/infrastructure/storage"
	"authorship-lab/internal"
	"authorship-lab/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the calling shell or pipeline.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "N-gram generation terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.LoadNgramConfig()
	if err != nil {
		return exitConfig, err
	}
	kinds, err := config.FeatureKinds()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Generate one feature directory per author
	start := time.Now()
	service := services.NewNgramService(storage.NewFeatureStore(log), grams.NewGenerator(kinds, log), log)
	processed, err := service.Run(ctx, config.SourceDir, config.DestDir)
	if err != nil {
		return exitRuntime, fmt.Errorf("generation stopped after %d authors: %w", processed, err)
	}

	log.Info("N-grams generated", "authors", processed, "kinds", len(kinds), "elapsed", time.Since(start))
	return exitOK, nil
}
