package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a job
type Status string

// Possible job status values
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Common job errors
var (
	ErrQueueClosed    = errors.New("job queue is closed")
	ErrQueueFull      = errors.New("job queue is full")
	ErrUnknownJobType = errors.New("unknown job type")
	ErrJobInFlight    = errors.New("job is already queued or running")
)

// Job is a unit of background work.
type Job interface {
	ID() uuid.UUID
	Type() string
	// Payload returns the JSON the job can be rebuilt from.
	Payload() []byte
	Status() Status
	Execute(ctx context.Context) error
}

// Record is a persisted job as read back from the store.
type Record struct {
	ID           uuid.UUID
	Type         string
	Payload      []byte
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists jobs and their status changes.
type Store interface {
	// SaveJob persists a new job in its current status.
	SaveJob(ctx context.Context, job Job) error

	// UpdateJobStatus records a status change and an optional error message.
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status Status, errorMsg string) error

	// GetPendingJobs returns all pending jobs, oldest first.
	GetPendingJobs(ctx context.Context) ([]Record, error)

	// GetProcessingJobs returns processing jobs; a non-zero olderThan keeps
	// only jobs that have not been touched for at least that long.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Record, error)
}
