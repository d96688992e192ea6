package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"picklist/internal/config"
	"picklist/internal/connectors/shipstation"
	"picklist/internal/listener"
	"picklist/internal/logger"
	"picklist/internal/pipeline"
	"picklist/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(cfg.Require("SHIPSTATION_API_KEY", cfg.ShipStationAPIKey))
	must(cfg.Require("SHIPSTATION_API_SECRET", cfg.ShipStationSecret))

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	must(err)
	defer func() { _ = log.Sync() }()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	proc := pipeline.NewProcessingService(db, cfg, shipstation.NewClient(cfg), log)
	svc := listener.NewService(cfg, proc, log)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
