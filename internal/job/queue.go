package job

import (
	"fmt"
	"log/slog"
	"sync"
)

// QueueReader provides read-only access to queued jobs.
type QueueReader interface {
	Channel() <-chan Job
}

// Queue is a bounded in-memory job queue.
type Queue struct {
	mu     sync.Mutex
	jobs   chan Job
	closed bool
	logger *slog.Logger
}

var _ QueueReader = (*Queue)(nil)

// NewQueue creates a queue holding at most size jobs.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job without blocking.
// Returns ErrQueueFull or ErrQueueClosed when the job cannot be accepted.
func (q *Queue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close stops accepting jobs. Calling Close more than once is a no-op.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed", "dropped_jobs", len(q.jobs))
	}
}

// Channel returns the channel workers consume from.
func (q *Queue) Channel() <-chan Job {
	return q.jobs
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	return len(q.jobs)
}
