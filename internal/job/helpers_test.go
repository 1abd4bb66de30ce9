package job

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is an in-memory Store used by the runner tests.
type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[uuid.UUID]*Record)}
}

func (s *memoryStore) SaveJob(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	now := time.Now().UTC()
	s.records[job.ID()] = &Record{
		ID:        job.ID(),
		Type:      job.Type(),
		Payload:   job.Payload(),
		Status:    job.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *memoryStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status Status, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return errors.New("job not found")
	}
	rec.Status = status
	rec.ErrorMessage = errorMsg
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) GetPendingJobs(context.Context) ([]Record, error) {
	return s.byStatus(StatusPending, 0), nil
}

func (s *memoryStore) GetProcessingJobs(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(StatusProcessing, olderThan), nil
}

func (s *memoryStore) byStatus(status Status, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && time.Since(rec.UpdatedAt) < olderThan {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func (s *memoryStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = &rec
}

func (s *memoryStore) get(id uuid.UUID) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

const testJobType = "test_job"

// testJob runs fn when executed.
type testJob struct {
	id      uuid.UUID
	payload []byte
	fn      func(ctx context.Context) error
}

func newTestJob(fn func(ctx context.Context) error) *testJob {
	payload, _ := json.Marshal(map[string]string{"name": "test"})
	return &testJob{id: uuid.New(), payload: payload, fn: fn}
}

func (j *testJob) ID() uuid.UUID { return j.id }
func (j *testJob) Type() string { return testJobType }
func (j *testJob) Payload() []byte { return j.payload }
func (j *testJob) Status() Status { return StatusPending }
func (j *testJob) Execute(ctx context.Context) error {
	if j.fn == nil {
		return nil
	}
	return j.fn(ctx)
}
