package ingest

import (
	"context"
	"fmt"
	"sync"
)

// Job is a unit of validation work submitted to the WorkerPool.
type Job func(ctx context.Context) error

// WorkerPool runs jobs using a fixed number of goroutines. The learn
// pipeline creates one pool per chunk and tears it down at fan-in, so
// workers never carry state between chunks. The first job error or panic
// is recorded and available via Err after Close.
type WorkerPool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	closeMu sync.Mutex
	closed  bool

	errMu    sync.Mutex
	firstErr error
}

// NewWorkerPool creates a pool with the specified number of workers and
// job queue capacity.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start begins the worker goroutines, which run jobs until ctx is done or
// Close is called. After cancellation, workers keep consuming queued jobs
// until Close so submitters waiting on job completion are released; jobs
// see the cancelled context and are expected to bail out early.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					for job := range p.jobs {
						if err := p.runJob(ctx, job); err != nil {
							p.recordErr(err)
						}
					}
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					if err := p.runJob(ctx, job); err != nil {
						p.recordErr(err)
					}
				}
			}
		}()
	}
}

// runJob converts a panicking job into an error so a crashing worker
// fails the chunk instead of the process.
func (p *WorkerPool) runJob(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return job(ctx)
}

func (p *WorkerPool) recordErr(err error) {
	p.errMu.Lock()
	if p.firstErr == nil {
		p.firstErr = err
	}
	p.errMu.Unlock()
}

// Err returns the first error recorded by any worker, if any.
func (p *WorkerPool) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.firstErr
}

// Submit enqueues a job. Returns ErrPoolClosed if the pool is closed.
func (p *WorkerPool) Submit(job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- job
	return nil
}

// Close stops accepting new jobs and waits for workers to finish.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
