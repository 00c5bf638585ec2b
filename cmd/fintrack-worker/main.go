package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/codec"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(
		repo,
		codec.Codec{WithCategory: true},
		cfg.ExportFile,
		cfg.ExportBatchSize,
	)

	ctx := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up on anything missed while the worker was down.
	logger.Info("Performing startup export sweep")
	if err := exportWorker.ProcessPending(ctx); err != nil {
		logger.Error("Startup export sweep failed", "error", err)
		// Don't exit - continue with normal operation
	}

	logger.Info("Consuming record events",
		"queue", cfg.AMQPQueue,
		"export_file", cfg.ExportFile,
		"sweep_interval", cfg.ExportInterval)

	if err := exportWorker.Run(ctx, amqpClient, cfg.ExportInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
