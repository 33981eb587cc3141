package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvpilot/cv-analyzer/constants"
	"github.com/cvpilot/cv-analyzer/internal/common"
	"github.com/cvpilot/cv-analyzer/internal/processor"
)

// fakeSource serves a fixed batch of jobs, then blocks until the context is
// cancelled like a real blocking pop would.
type fakeSource struct {
	mu       sync.Mutex
	jobs     []processor.Job
	failures []error
	served   chan struct{}
}

func newFakeSource(jobs ...processor.Job) *fakeSource {
	return &fakeSource{jobs: jobs, served: make(chan struct{})}
}

func (s *fakeSource) Next(ctx context.Context) (processor.Job, error) {
	s.mu.Lock()
	if len(s.jobs) > 0 {
		job := s.jobs[0]
		s.jobs = s.jobs[1:]
		if len(s.jobs) == 0 {
			close(s.served)
		}
		s.mu.Unlock()
		return job, nil
	}
	s.mu.Unlock()
	<-ctx.Done()
	return processor.Job{}, ctx.Err()
}

func (s *fakeSource) ReportFailure(_ context.Context, _ processor.Job, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, cause)
	return nil
}

func (s *fakeSource) reported() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.failures...)
}

type fakeProcessor struct {
	mu        sync.Mutex
	processed []uuid.UUID
	errs      map[uuid.UUID]error
}

func (p *fakeProcessor) Process(_ context.Context, job processor.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, job.DocumentID)
	return p.errs[job.DocumentID]
}

func (p *fakeProcessor) seen() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]uuid.UUID(nil), p.processed...)
}

type fakeStatuses map[uuid.UUID]constants.JobStatus

func (s fakeStatuses) Status(_ context.Context, id uuid.UUID) (constants.JobStatus, error) {
	status, ok := s[id]
	if !ok {
		return "", errors.New("unknown job")
	}
	return status, nil
}

func validJob(id uuid.UUID, name string) processor.Job {
	return processor.Job{
		DocumentID:  id,
		OwnerID:     uuid.New(),
		StoragePath: "cvs/" + name,
		ContentType: constants.ContentTypePDF,
		FileName:    name,
	}
}

// runUntilDrained runs the consumer until the source has served every job,
// with a grace period for in-flight handling, then cancels.
func runUntilDrained(t *testing.T, c *Consumer, src *fakeSource) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case <-src.served:
	case <-time.After(5 * time.Second):
		t.Fatal("source never drained")
	}
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not shut down")
	}
}

func TestConsumerProcessesPendingJobs(t *testing.T) {
	idA, idB := uuid.New(), uuid.New()
	src := newFakeSource(
		validJob(idA, "a.pdf"),
		validJob(idB, "b.pdf"),
	)
	proc := &fakeProcessor{}
	statuses := fakeStatuses{
		idA: constants.JobStatusPending,
		idB: constants.JobStatusPending,
	}

	c := New(src, proc, statuses, nil, WithWorkers(2), WithRetryDelay(10*time.Millisecond))
	runUntilDrained(t, c, src)

	assert.ElementsMatch(t, []uuid.UUID{idA, idB}, proc.seen())
	assert.Empty(t, src.reported())
}

func TestConsumerSkipsCompletedJobs(t *testing.T) {
	done, pending := uuid.New(), uuid.New()
	src := newFakeSource(
		validJob(done, "done.pdf"),
		validJob(pending, "pending.pdf"),
	)
	proc := &fakeProcessor{}
	statuses := fakeStatuses{
		done:    constants.JobStatusCompleted,
		pending: constants.JobStatusPending,
	}

	c := New(src, proc, statuses, nil, WithWorkers(1), WithRetryDelay(10*time.Millisecond))
	runUntilDrained(t, c, src)

	assert.Equal(t, []uuid.UUID{pending}, proc.seen(), "redelivered completed job is a no-op")
	assert.Empty(t, src.reported())
}

func TestConsumerReportsProcessingFailures(t *testing.T) {
	id := uuid.New()
	src := newFakeSource(validJob(id, "bad.pdf"))
	wantErr := errors.New("extraction blew up")
	proc := &fakeProcessor{errs: map[uuid.UUID]error{id: wantErr}}
	statuses := fakeStatuses{id: constants.JobStatusPending}

	c := New(src, proc, statuses, nil, WithWorkers(1), WithRetryDelay(10*time.Millisecond))
	runUntilDrained(t, c, src)

	failures := src.reported()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], wantErr)
}

func TestConsumerReportsStatusCheckFailures(t *testing.T) {
	id := uuid.New()
	src := newFakeSource(validJob(id, "ghost.pdf"))
	proc := &fakeProcessor{}
	statuses := fakeStatuses{} // unknown job

	c := New(src, proc, statuses, nil, WithWorkers(1), WithRetryDelay(10*time.Millisecond))
	runUntilDrained(t, c, src)

	assert.Empty(t, proc.seen(), "job with unreadable status is not processed")
	require.Len(t, src.reported(), 1)
}

func TestConsumerDeadLettersMalformedPayloads(t *testing.T) {
	src := newFakeSource(processor.Job{FileName: "no-id.pdf"})
	proc := &fakeProcessor{}

	c := New(src, proc, fakeStatuses{}, nil, WithWorkers(1), WithRetryDelay(10*time.Millisecond))
	runUntilDrained(t, c, src)

	assert.Empty(t, proc.seen(), "malformed payload never reaches the processor")
	failures := src.reported()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], common.ErrInvalidInput)
}

func TestOptionsIgnoreNonPositiveValues(t *testing.T) {
	c := New(newFakeSource(), &fakeProcessor{}, fakeStatuses{}, nil,
		WithWorkers(0), WithJobTimeout(-time.Second), WithRetryDelay(0))
	assert.Equal(t, 4, c.workers)
	assert.Equal(t, 3*time.Minute, c.timeout)
	assert.Equal(t, 5*time.Second, c.retryDelay)
}
