package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool manages a pool of workers that execute jobs concurrently. Trials are
// independent of each other, so jobs may complete in any order; completed
// results accumulate under a lock rather than a channel so submission never
// blocks on an undrained consumer.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    []Result
	resultsMu  sync.Mutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			p.resultsMu.Lock()
			p.results = append(p.results, result)
			p.resultsMu.Unlock()
		}
	}
}

// Submit submits a job to the pool for execution
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for all submitted jobs to complete and
// returns the collected results.
func (p *Pool) Wait() []Result {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
	})
	p.wg.Wait()

	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()
	return p.results
}

// Shutdown stops the worker pool without waiting for queued jobs.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}
