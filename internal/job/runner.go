package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunnerConfig holds configuration for the Runner.
type RunnerConfig struct {
	// WorkerCount determines how many jobs run concurrently.
	WorkerCount int

	// QueueSize bounds the in-memory queue.
	QueueSize int

	// StuckJobAge is how long a job may stay in processing before it is reset.
	StuckJobAge time.Duration

	// StuckJobCheckInterval is how often stuck and unqueued pending jobs are looked for.
	StuckJobCheckInterval time.Duration

	// PendingJobGrace is how long a pending job may wait outside the queue
	// before the monitor queues it.
	PendingJobGrace time.Duration

	// JobTimeout bounds a single execution.
	JobTimeout time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
		PendingJobGrace:       time.Minute,
		JobTimeout:            2 * time.Minute,
	}
}

// Runner persists, queues and executes jobs.
type Runner struct {
	store      Store
	registry   *Registry
	queue      *Queue
	pool       *WorkerPool
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)

	// inFlight holds the IDs of jobs that are queued or running.
	inFlightMu sync.Mutex
	inFlight   map[uuid.UUID]struct{}

	monitorCtx    context.Context
	monitorCancel context.CancelFunc
	monitorWG     sync.WaitGroup
}

// NewRunner creates a Runner. Zero config values fall back to DefaultRunnerConfig.
func NewRunner(store Store, registry *Registry, config RunnerConfig, logger *slog.Logger) *Runner {
	defaults := DefaultRunnerConfig()
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.StuckJobAge <= 0 {
		config.StuckJobAge = defaults.StuckJobAge
	}
	if config.StuckJobCheckInterval <= 0 {
		config.StuckJobCheckInterval = defaults.StuckJobCheckInterval
	}
	if config.PendingJobGrace <= 0 {
		config.PendingJobGrace = defaults.PendingJobGrace
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "job_runner")

	queue := NewQueue(config.QueueSize, logger)
	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:         store,
		registry:      registry,
		queue:         queue,
		pool:          NewWorkerPool(queue, config.WorkerCount, logger),
		config:        config,
		logger:        logger,
		monitorCtx:    ctx,
		monitorCancel: cancel,
		inFlight:      make(map[uuid.UUID]struct{}),
		errHandler: func(job Job, err error) {
			logger.Error("job execution failed",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler replaces the function called when a job fails.
func (r *Runner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Submit persists the job and queues it.
// A job that is saved but cannot be queued stays pending; the monitor queues
// it once it is older than PendingJobGrace.
func (r *Runner) Submit(ctx context.Context, job Job) error {
	if err := r.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	if err := r.enqueue(job); err != nil {
		return fmt.Errorf("failed to queue job %s: %w", job.ID(), err)
	}
	return nil
}

// Start recovers unfinished jobs, starts the workers and the stuck job monitor.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	r.pool.Start(r.processJob)

	r.monitorWG.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop stops the monitor and the workers, waiting for running jobs until ctx is done.
// Jobs still queued remain pending in the store.
func (r *Runner) Stop(ctx context.Context) error {
	r.monitorCancel()

	done := make(chan struct{})
	go func() {
		r.pool.Stop()
		r.monitorWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.queue.Close()
		return nil
	case <-ctx.Done():
		return fmt.Errorf("job runner did not stop in time: %w", ctx.Err())
	}
}

// Recover queues the jobs left pending or processing by a previous run.
func (r *Runner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, rec := range pending {
		r.requeue(ctx, rec, false, "")
	}
	for _, rec := range processing {
		r.requeue(ctx, rec, true, "reset after recovery")
	}
	return nil
}

// requeue rebuilds rec and queues it, resetting it to pending first when asked.
// Records that cannot be rebuilt are marked failed. Jobs already queued or
// running in this process are left alone.
func (r *Runner) requeue(ctx context.Context, rec Record, reset bool, reason string) {
	log := r.logger.With("job_id", rec.ID, "job_type", rec.Type)

	if r.isInFlight(rec.ID) {
		log.Debug("job already queued or running")
		return
	}

	job, err := r.registry.Rehydrate(rec)
	if err != nil {
		log.Error("failed to rebuild job", "error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, rec.ID, StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to mark job as failed", "error", updateErr)
		}
		return
	}

	if reset {
		if err := r.store.UpdateJobStatus(ctx, rec.ID, StatusPending, reason); err != nil {
			log.Error("failed to reset job status", "error", err)
			return
		}
	}

	if err := r.enqueue(job); err != nil {
		log.Error("failed to requeue job", "error", err)
		return
	}
	log.Info("requeued job")
}

// enqueue queues job unless it is already in flight.
func (r *Runner) enqueue(job Job) error {
	r.inFlightMu.Lock()
	if _, ok := r.inFlight[job.ID()]; ok {
		r.inFlightMu.Unlock()
		return ErrJobInFlight
	}
	r.inFlight[job.ID()] = struct{}{}
	r.inFlightMu.Unlock()

	if err := r.queue.Enqueue(job); err != nil {
		r.release(job.ID())
		return err
	}
	return nil
}

func (r *Runner) isInFlight(id uuid.UUID) bool {
	r.inFlightMu.Lock()
	defer r.inFlightMu.Unlock()
	_, ok := r.inFlight[id]
	return ok
}

func (r *Runner) inFlightIDs() map[uuid.UUID]struct{} {
	r.inFlightMu.Lock()
	defer r.inFlightMu.Unlock()
	ids := make(map[uuid.UUID]struct{}, len(r.inFlight))
	for id := range r.inFlight {
		ids[id] = struct{}{}
	}
	return ids
}

func (r *Runner) release(id uuid.UUID) {
	r.inFlightMu.Lock()
	defer r.inFlightMu.Unlock()
	delete(r.inFlight, id)
}

// processJob executes one job and records its outcome.
func (r *Runner) processJob(job Job, workerID int) {
	log := r.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	defer r.release(job.ID())

	ctx, cancel := context.WithTimeout(context.Background(), r.config.JobTimeout)
	defer cancel()

	if err := r.store.UpdateJobStatus(ctx, job.ID(), StatusProcessing, ""); err != nil {
		log.Error("failed to update job status to processing", "error", err)
		return
	}

	log.Info("processing job")

	if err := r.execute(ctx, job); err != nil {
		if updateErr := r.store.UpdateJobStatus(ctx, job.ID(), StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update job status to failed", "error", updateErr)
		}
		r.errHandler(job, err)
		return
	}

	log.Info("job completed successfully")
	if err := r.store.UpdateJobStatus(ctx, job.ID(), StatusCompleted, ""); err != nil {
		log.Error("failed to update job status to completed", "error", err)
	}
}

// execute runs the job, turning a panic into an error.
func (r *Runner) execute(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()
	return job.Execute(ctx)
}

// stuckJobMonitor periodically requeues jobs stuck in processing and pending
// jobs that never made it into the queue.
func (r *Runner) stuckJobMonitor() {
	defer r.monitorWG.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.monitorCtx.Done():
			return
		case <-ticker.C:
			r.resetStuckJobs(r.monitorCtx)
			r.queueStalePendingJobs(r.monitorCtx)
		}
	}
}

// The in-flight set is read before the store so a job finishing between the
// two reads is not mistaken for a lost one.
func (r *Runner) resetStuckJobs(ctx context.Context) {
	busy := r.inFlightIDs()
	stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.logger.Error("failed to check for stuck jobs", "error", err)
		}
		return
	}
	if len(stuck) == 0 {
		return
	}

	r.logger.Info("found stuck jobs", "count", len(stuck))
	for _, rec := range stuck {
		if _, ok := busy[rec.ID]; ok {
			continue
		}
		r.requeue(ctx, rec, true, "reset after being stuck in processing state")
	}
}

func (r *Runner) queueStalePendingJobs(ctx context.Context) {
	busy := r.inFlightIDs()
	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.logger.Error("failed to check for pending jobs", "error", err)
		}
		return
	}

	for _, rec := range pending {
		if _, ok := busy[rec.ID]; ok || time.Since(rec.UpdatedAt) < r.config.PendingJobGrace {
			continue
		}
		r.requeue(ctx, rec, false, "")
	}
}
