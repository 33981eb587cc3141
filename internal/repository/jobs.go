package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/common"
)

// JobRepository mutates the lifecycle fields of a persisted job record. The
// upload flow owns row creation; this side only transitions status and
// attaches results. Each method is a single UPDATE so status and payload
// always land together.
type JobRepository interface {
	Status(ctx context.Context, jobID uuid.UUID) (constants.JobStatus, error)
	MarkProcessing(ctx context.Context, jobID uuid.UUID) error
	MarkCompleted(ctx context.Context, jobID uuid.UUID, result json.RawMessage, processedAt time.Time) error
	MarkError(ctx context.Context, jobID uuid.UUID, message string, processedAt time.Time) error
}

type jobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewJobRepository(pool *pgxpool.Pool, log *slog.Logger) JobRepository {
	return &jobRepo{pool: pool, log: log}
}

func (r *jobRepo) Status(ctx context.Context, jobID uuid.UUID) (constants.JobStatus, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM cvs WHERE id = $1`, jobID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: query status for job %s: %v", common.ErrPersistenceFailed, jobID, err)
	}
	return constants.JobStatus(status), nil
}

func (r *jobRepo) MarkProcessing(ctx context.Context, jobID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cvs SET status = $2 WHERE id = $1`,
		jobID, constants.JobStatusProcessing,
	)
	if err != nil {
		r.log.Error("job mark processing failed", "job_id", jobID, "err", err)
		return fmt.Errorf("%w: mark processing for job %s: %v", common.ErrPersistenceFailed, jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	r.log.Info("job processing", "job_id", jobID)
	return nil
}

func (r *jobRepo) MarkCompleted(ctx context.Context, jobID uuid.UUID, result json.RawMessage, processedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cvs
		    SET status = $2, analysis = $3, error_message = NULL, processed_at = $4
		  WHERE id = $1`,
		jobID, constants.JobStatusCompleted, result, processedAt,
	)
	if err != nil {
		r.log.Error("job mark completed failed", "job_id", jobID, "err", err)
		return fmt.Errorf("%w: mark completed for job %s: %v", common.ErrPersistenceFailed, jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	r.log.Info("job completed", "job_id", jobID)
	return nil
}

func (r *jobRepo) MarkError(ctx context.Context, jobID uuid.UUID, message string, processedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cvs
		    SET status = $2, error_message = $3, processed_at = $4
		  WHERE id = $1`,
		jobID, constants.JobStatusError, message, processedAt,
	)
	if err != nil {
		r.log.Error("job mark error failed", "job_id", jobID, "err", err)
		return fmt.Errorf("%w: mark error for job %s: %v", common.ErrPersistenceFailed, jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", common.ErrNotFound, jobID)
	}
	r.log.Warn("job errored", "job_id", jobID, "error", message)
	return nil
}
