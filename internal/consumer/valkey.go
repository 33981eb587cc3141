package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/cvpilot/cv-analyzer/internal/common"
	"github.com/cvpilot/cv-analyzer/internal/processor"
)

// ValkeyQueue consumes JSON-encoded jobs from a Valkey list. The list is the
// durable at-least-once transport; this side only pops and reports. Failed
// jobs go to a dead-letter list for operator inspection and re-enqueue.
type ValkeyQueue struct {
	client        valkey.Client
	key           string
	deadLetterKey string
	log           *slog.Logger
}

func NewValkeyQueue(ctx context.Context, cfg common.QueueConfig, logger *slog.Logger) (*ValkeyQueue, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.Address},
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	return &ValkeyQueue{
		client:        client,
		key:           cfg.Key,
		deadLetterKey: cfg.DeadLetterKey,
		log:           logger,
	}, nil
}

// Next blocks until a job payload is available or ctx is cancelled.
func (q *ValkeyQueue) Next(ctx context.Context) (processor.Job, error) {
	cmd := q.client.B().Brpop().Key(q.key).Timeout(0).Build()
	arr, err := q.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		return processor.Job{}, fmt.Errorf("brpop %s: %w", q.key, err)
	}
	if len(arr) != 2 {
		return processor.Job{}, fmt.Errorf("brpop %s: unexpected reply shape", q.key)
	}

	var job processor.Job
	if err := json.Unmarshal([]byte(arr[1]), &job); err != nil {
		return processor.Job{}, fmt.Errorf("decode job payload: %w", err)
	}
	return job, nil
}

// deadLetter is the payload stored on the dead-letter list.
type deadLetter struct {
	Job      processor.Job `json:"job"`
	Error    string        `json:"error"`
	FailedAt time.Time     `json:"failed_at"`
}

// ReportFailure records the failed attempt on the dead-letter list. Re-attempt
// policy (manual or automated re-enqueue, backoff) lives outside this worker.
func (q *ValkeyQueue) ReportFailure(ctx context.Context, job processor.Job, cause error) error {
	payload, err := json.Marshal(deadLetter{
		Job:      job,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode dead letter: %w", err)
	}

	cmd := q.client.B().Lpush().Key(q.deadLetterKey).Element(string(payload)).Build()
	if _, err := q.client.Do(ctx, cmd).AsInt64(); err != nil {
		return fmt.Errorf("lpush %s: %w", q.deadLetterKey, err)
	}
	q.log.Warn("queue.dead_letter",
		"job_id", job.DocumentID,
		"file", job.FileName,
		"cause", cause.Error(),
	)
	return nil
}

func (q *ValkeyQueue) Close() {
	q.client.Close()
}
