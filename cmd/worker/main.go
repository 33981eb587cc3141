package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cvpilot/cv-analyzer/internal/common"
	"github.com/cvpilot/cv-analyzer/internal/consumer"
	"github.com/cvpilot/cv-analyzer/internal/extract"
	"github.com/cvpilot/cv-analyzer/internal/gemini"
	"github.com/cvpilot/cv-analyzer/internal/objectstore"
	"github.com/cvpilot/cv-analyzer/internal/processor"
	"github.com/cvpilot/cv-analyzer/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	store, err := objectstore.NewFileStore(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to create object store", "error", err)
		os.Exit(1)
	}

	llm, err := gemini.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error("failed to create inference client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := llm.Close(); err != nil {
			logger.Warn("inference client close error", "error", err)
		}
	}()

	queue, err := consumer.NewValkeyQueue(ctx, cfg.Queue, logger)
	if err != nil {
		logger.Error("failed to connect to queue", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	jobs := repository.NewJobRepository(pool, logger)
	proc := processor.NewProcessor(logger, jobs, store, extract.NewExtractor(), llm)

	c := consumer.New(queue, proc, jobs, logger,
		consumer.WithWorkers(cfg.Worker.Workers),
		consumer.WithJobTimeout(cfg.Worker.JobTimeout),
	)

	logger.Info("cv analysis worker started, waiting for jobs",
		"queue", cfg.Queue.Key,
		"workers", cfg.Worker.Workers,
	)
	c.Run(ctx)
	logger.Info("worker shutdown complete")
}
