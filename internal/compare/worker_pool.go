package compare

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) error
}

// WorkerPool runs comparison jobs across a fixed set of goroutines. Pairwise
// pipelines have no data dependency on each other, so the pool needs no
// locking beyond the job channel.
type WorkerPool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWorkerPool creates a pool sized from the CPU count, reserving a quarter
// of the cores for the rest of the process.
func NewWorkerPool(ctx context.Context) *WorkerPool {
	totalCPU := runtime.NumCPU()
	reserve := max(1, totalCPU/4)
	size := max(1, totalCPU-reserve)
	log.Info().
		Int("totalCPU", totalCPU).
		Int("workers", size).
		Msg("comparison worker pool initialized")

	poolCtx, cancel := context.WithCancel(ctx)
	pool := &WorkerPool{
		workers:  size,
		jobQueue: make(chan Job, size*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}
	pool.start()
	return pool
}

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobQueue:
			if err := job.Execute(p.ctx); err != nil {
				log.Error().Err(err).Msg("comparison job failed")
			}
		}
	}
}

// Submit queues a job, failing only when the pool is shut down.
func (p *WorkerPool) Submit(job Job) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- job:
		return nil
	}
}

// Close stops the pool and waits for all workers to finish. Jobs still
// queued at shutdown are dropped.
func (p *WorkerPool) Close() {
	p.cancel()
	p.wg.Wait()
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.workers
}
