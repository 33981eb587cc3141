// Command healthcheck verifies connectivity to every backend the worker
// depends on: Postgres, Valkey, and the object store. Exit code 0 means all
// checks passed; useful as a deploy gate or container health probe.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"github.com/cvpilot/cv-analyzer/internal/common"
	"github.com/cvpilot/cv-analyzer/internal/consumer"
	"github.com/cvpilot/cv-analyzer/internal/objectstore"
	"github.com/cvpilot/cv-analyzer/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ok := true

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("health.db", "status", "FAIL", "error", err)
		ok = false
	} else {
		if err := repository.HealthCheck(ctx, pool, time.Second); err != nil {
			logger.Error("health.db", "status", "FAIL", "error", err)
			ok = false
		} else {
			logger.Info("health.db", "status", "OK")
		}
		repository.Close(pool, logger)
	}

	if queue, err := consumer.NewValkeyQueue(ctx, cfg.Queue, logger); err != nil {
		logger.Error("health.queue", "status", "FAIL", "error", err)
		ok = false
	} else {
		logger.Info("health.queue", "status", "OK", "key", cfg.Queue.Key)
		queue.Close()
	}

	if err := checkBucket(ctx, cfg.Storage); err != nil {
		logger.Error("health.storage", "status", "FAIL", "error", err)
		ok = false
	} else {
		logger.Info("health.storage", "status", "OK", "bucket", cfg.Storage.Bucket)
	}

	if !ok {
		os.Exit(1)
	}
}

func checkBucket(ctx context.Context, cfg common.StorageConfig) error {
	store, err := objectstore.NewFileStore(ctx, cfg)
	if err != nil {
		return err
	}
	hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = store.Client().HeadBucket(hctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	return err
}
