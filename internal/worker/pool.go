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

// Pool manages a pool of workers that execute jobs concurrently
type Pool struct {
	workers     int
	jobQueue    chan Job
	results     chan Result
	collected   []Result
	collectDone chan struct{}
	started     bool
	wg          sync.WaitGroup
	ctx         context.Context
	cancelFunc  context.CancelFunc
	closeOnce   sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx stops the workers as Shutdown does.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:     workers,
		jobQueue:    make(chan Job, workers*2),
		results:     make(chan Result, workers*2),
		collectDone: make(chan struct{}),
		ctx:         ctx,
		cancelFunc:  cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	p.started = true
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	// drain results while jobs are still being submitted
	go func() {
		defer close(p.collectDone)
		for result := range p.results {
			p.collected = append(p.collected, result)
		}
	}()
}

// worker is the worker goroutine that processes jobs
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
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
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

// Wait waits for all submitted jobs to complete and returns their results in
// completion order. Submit must not be called afterwards.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	if p.started {
		<-p.collectDone
	}
	p.cancelFunc()
	return p.collected
}

// Shutdown stops the workers immediately; jobs still queued are dropped
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	if p.started {
		<-p.collectDone
	}
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
