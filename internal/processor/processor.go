// Package processor orchestrates one job attempt: fetch, extract, prompt,
// invoke, normalize, persist.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/analysis"
	"github.com/cvpilot/cv-analyzer/internal/common"
	"github.com/cvpilot/cv-analyzer/internal/repository"
)

// Job is one request to analyze an uploaded document. Immutable after
// creation; it travels as the queue payload.
type Job struct {
	DocumentID  uuid.UUID `json:"document_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	StoragePath string    `json:"storage_path"`
	ContentType string    `json:"content_type"`
	FileName    string    `json:"file_name"`
}

// Validate rejects structurally unusable queue payloads before any status
// write is attempted on their behalf.
func (j Job) Validate() error {
	return common.NewValidator().
		Field("document_id", j.DocumentID, common.NonNilUUID).
		Field("storage_path", j.StoragePath, common.Required).
		Field("content_type", j.ContentType, common.Required).
		Error()
}

// Downloader fetches the uploaded document bytes.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// TextExtractor converts document bytes into plain text.
type TextExtractor interface {
	Extract(content []byte, contentType string) (string, error)
}

// Invoker sends one prompt to the inference service.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// errorWriteRetries bounds the local retry of the failure-path status write.
// Losing that write would leave a job stuck in "processing" with no operator
// visibility, so it is the one write retried here.
const errorWriteRetries = 3

// Processor runs the pipeline for a single job attempt. It holds no mutable
// per-job state, so distinct jobs may be processed concurrently.
type Processor struct {
	log       *slog.Logger
	jobs      repository.JobRepository
	store     Downloader
	extractor TextExtractor
	llm       Invoker
}

func NewProcessor(
	logger *slog.Logger,
	jobs repository.JobRepository,
	store Downloader,
	extractor TextExtractor,
	llm Invoker,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		log:       logger,
		jobs:      jobs,
		store:     store,
		extractor: extractor,
		llm:       llm,
	}
}

// Process runs one attempt: pending → processing → {completed, error}.
// The processing transition is persisted before extraction starts, so a crash
// mid-attempt leaves an observable "processing" record. On success the
// completed status, the analysis payload, and the completion timestamp land
// in a single update. On any failure the error status is persisted and the
// failure is returned so the transport's retry policy can decide.
func (p *Processor) Process(ctx context.Context, job Job) error {
	log := p.log.With("job_id", job.DocumentID, "file", job.FileName)
	log.Info("worker.job.start", "content_type", job.ContentType)

	if err := p.jobs.MarkProcessing(ctx, job.DocumentID); err != nil {
		log.Error("worker.job.mark_processing_failed", "error", err)
		return err
	}

	content, err := p.store.Download(ctx, job.StoragePath)
	if err != nil {
		return p.fail(ctx, log, job, common.WrapError(err, "download document"))
	}

	text, err := p.extractor.Extract(content, job.ContentType)
	if err != nil {
		return p.fail(ctx, log, job, common.WrapError(err, "extract text"))
	}

	// Never spend an inference call on a document that yielded no usable
	// text.
	if len(text) < constants.MinTextLength {
		err := fmt.Errorf("%w: extracted %d characters, need at least %d",
			common.ErrInsufficientContent, len(text), constants.MinTextLength)
		return p.fail(ctx, log, job, err)
	}

	raw, err := p.llm.Invoke(ctx, analysis.BuildPrompt(text))
	if err != nil {
		return p.fail(ctx, log, job, common.WrapError(err, "invoke inference service"))
	}

	result, err := analysis.Normalize(raw)
	if err != nil {
		return p.fail(ctx, log, job, common.WrapError(err, "normalize response"))
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return p.fail(ctx, log, job, common.WrapError(err, "encode analysis result"))
	}

	if err := p.jobs.MarkCompleted(ctx, job.DocumentID, payload, time.Now().UTC()); err != nil {
		return p.fail(ctx, log, job, err)
	}

	log.Info("worker.job.ok", "overall_score", result.Scores.Overall)
	return nil
}

// fail records the terminal error status for this attempt and re-raises the
// cause. The status write is retried a small bounded number of times; when
// the attempt context is already cancelled a detached short-deadline context
// is used so the record is not silently lost.
func (p *Processor) fail(ctx context.Context, log *slog.Logger, job Job, cause error) error {
	log.Error("worker.job.failed", "error", cause)

	wctx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	var writeErr error
	for attempt := 0; attempt < errorWriteRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<attempt) * 250 * time.Millisecond)
		}
		writeErr = p.jobs.MarkError(wctx, job.DocumentID, cause.Error(), time.Now().UTC())
		if writeErr == nil {
			return cause
		}
		log.Warn("worker.job.error_write_retry", "attempt", attempt+1, "error", writeErr)
	}
	log.Error("worker.job.error_write_lost", "error", writeErr)
	return cause
}
