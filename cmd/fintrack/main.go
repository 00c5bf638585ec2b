package main

import (
	"context"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/codec"
	"fintrack/internal/services"
	"fintrack/internal/shell"
	"fintrack/internal/tracker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// The tracker hands out the one shared ledger; everything below
	// receives it as an explicit dependency.
	led := tracker.Instance()
	if cfg.LenientRemove {
		led.SetLenient(true)
		logger.Info("Lenient removal mode enabled")
	}

	var archive services.Archive
	if cfg.Backend == "sqlite" {
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		archive = repo
		logger.Info("SQLite archive enabled", "path", cfg.SQLiteDBPath)
	}

	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		events = client
		logger.Info("AMQP event stream enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := services.NewRecordService(led, archive, events, codec.Codec{WithCategory: cfg.CategoryColumn})
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting fintrack", "data_file", cfg.DataFile, "backend", cfg.Backend)

	sh := shell.New(svc, os.Stdin, os.Stdout)
	sh.SetDefaultFile(cfg.DataFile)
	sh.Run(context.Background())

	logger.Info("Session ended")
}
