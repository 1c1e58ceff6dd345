package main

import (
	"authorship-lab/internal"
	"authorship-lab/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
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
		fmt.Fprintf(os.Stderr, "Preprocessing terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	config, err := internal.LoadPreprocessConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processed, err := services.NewPreprocessService(config, log).Run(ctx)
	if err != nil {
		return exitRuntime, err
	}
	log.Info("Stage done", "stage", config.Stage, "authors", processed, "destination", config.DestDir)
	return exitOK, nil
}
