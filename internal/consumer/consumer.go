// Package consumer pulls analysis jobs off the durable queue and hands them
// to the job processor under a bounded concurrency limit.
package consumer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/common"
	"github.com/cvpilot/cv-analyzer/internal/processor"
)

// JobSource is the transport side of the queue: blocking fetch of the next
// job plus failure reporting for the transport's retry/dead-letter
// bookkeeping.
type JobSource interface {
	Next(ctx context.Context) (processor.Job, error)
	ReportFailure(ctx context.Context, job processor.Job, cause error) error
}

// JobProcessor runs one job attempt.
type JobProcessor interface {
	Process(ctx context.Context, job processor.Job) error
}

// StatusReader exposes the persisted job status for the completed-job guard.
type StatusReader interface {
	Status(ctx context.Context, jobID uuid.UUID) (constants.JobStatus, error)
}

type Consumer struct {
	src     JobSource
	proc    JobProcessor
	status  StatusReader
	logger  *slog.Logger
	workers int
	timeout time.Duration
	// delay before retrying after a transport fetch error
	retryDelay time.Duration
}

type Option func(*Consumer)

func WithWorkers(n int) Option {
	return func(c *Consumer) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(c *Consumer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Consumer) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

func New(src JobSource, proc JobProcessor, status StatusReader, logger *slog.Logger, opts ...Option) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Consumer{
		src:        src,
		proc:       proc,
		status:     status,
		logger:     logger,
		workers:    4,
		timeout:    3 * time.Minute,
		retryDelay: 5 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run starts the worker pool and blocks until ctx is cancelled and all
// in-flight attempts have finished. Concurrency is bounded by the worker
// count; ordering between distinct jobs is not guaranteed.
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			log := c.logger.With("worker_id", workerID)
			log.Info("worker started")
			c.consume(ctx, log)
			log.Info("worker stopped")
		}(i + 1)
	}
	wg.Wait()
}

func (c *Consumer) consume(ctx context.Context, log *slog.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := c.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("consumer.fetch.failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}

		c.handle(ctx, log, job)
	}
}

func (c *Consumer) handle(ctx context.Context, log *slog.Logger, job processor.Job) {
	// A malformed payload has no trustworthy job ID, so it goes straight to
	// the dead-letter list without touching any record.
	if err := job.Validate(); err != nil {
		log.Error("consumer.job.invalid_payload", "error", err)
		c.reportFailure(ctx, log, job, err)
		return
	}

	// Completed jobs are terminal; a redelivered message for one is a no-op.
	status, err := c.status.Status(ctx, job.DocumentID)
	if err != nil {
		log.Error("consumer.status_check.failed", "job_id", job.DocumentID, "error", err)
		c.reportFailure(ctx, log, job, err)
		return
	}
	if status == constants.JobStatusCompleted {
		log.Info("consumer.job.skipped", "job_id", job.DocumentID, "status", status)
		return
	}

	// One deadline spans the whole attempt: download, extraction, inference,
	// normalization, persistence.
	jctx, cancel := context.WithTimeout(ctx, c.timeout)
	err = c.proc.Process(jctx, job)
	cancel()

	if err != nil {
		c.reportFailure(ctx, log, job, err)
	}
}

func (c *Consumer) reportFailure(ctx context.Context, log *slog.Logger, job processor.Job, cause error) {
	// Use a detached context when shutting down so the report is not lost.
	rctx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := c.src.ReportFailure(rctx, job, cause); err != nil {
		log.Error("consumer.report_failure.failed",
			"job_id", job.DocumentID,
			"cause", cause,
			"error", common.WrapError(err, "report failure"),
		)
	}
}
