package worker

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job is one unit of work, typically a full game cycle.
type Job func(ctx context.Context) error

// ResultCallback is invoked on job completion (from a worker goroutine).
type ResultCallback func(err error)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict back-pressure).
// With a single worker, jobs never overlap.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx context.Context
	fn  Job
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for j := range p.jobs {
				var err error
				if err = j.ctx.Err(); err == nil {
					err = j.fn(j.ctx)
				}
				log.Debug().Int("worker", id).Err(err).Msg("job completed")
				if j.cb != nil {
					j.cb(err)
				}
			}
		}(i)
	}
}

// Submit enqueues a job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, fn Job, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, fn: fn, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
