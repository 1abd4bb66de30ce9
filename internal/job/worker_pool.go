package job

import (
	"context"
	"log/slog"
	"sync"
)

// HandlerFunc processes a single job taken from the queue.
type HandlerFunc func(job Job, workerID int)

// WorkerPool runs a fixed number of goroutines consuming a queue.
type WorkerPool struct {
	queue       QueueReader
	workerCount int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
}

// NewWorkerPool creates a pool of workerCount workers; non-positive counts use one worker.
func NewWorkerPool(queue QueueReader, workerCount int, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", workerCount,
			"default_count", 1)
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		queue:       queue,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches the workers. Each dequeued job is passed to handle.
func (p *WorkerPool) Start(handle HandlerFunc) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i, handle)
	}
	p.logger.Info("worker pool started", "worker_count", p.workerCount)
}

// Stop signals the workers to exit and waits until the jobs they are running finish.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) worker(id int, handle HandlerFunc) {
	defer p.wg.Done()
	p.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return
		case job, ok := <-p.queue.Channel():
			if !ok {
				p.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}
			handle(job, id)
		}
	}
}
