package pick

import (
	"runtime"
	"sync"
)

// Scheduler executes ready continuations. Push and PushFailure are fire
// and forget: they must not block the caller and must run the
// continuation exactly once. PushFailure carries the failure separately
// so schedulers can route or account failed resumes; the continuation's
// slot already holds the same error.
type Scheduler interface {
	Push(r Runnable)
	PushFailure(r Runnable, err error)
}

// GoScheduler runs every continuation on its own goroutine. It needs no
// configuration and never saturates, at the cost of one goroutine per
// resume.
type GoScheduler struct{}

func (GoScheduler) Push(r Runnable) { go r.Run() }

func (GoScheduler) PushFailure(r Runnable, _ error) { go r.Run() }

// Pool is a fixed-size worker pool scheduler backed by a buffered queue.
// When the queue is full, Push falls back to a fresh goroutine rather
// than blocking the producer.
type Pool struct {
	queue chan Runnable
	wg    sync.WaitGroup
}

type PoolOption func(*poolOptions)

type poolOptions struct {
	workers int
	depth   int
}

func defaultPoolOptions() poolOptions {
	return poolOptions{workers: runtime.GOMAXPROCS(0), depth: 256}
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(o *poolOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueDepth sets the buffered queue capacity.
func WithQueueDepth(n int) PoolOption {
	return func(o *poolOptions) {
		if n > 0 {
			o.depth = n
		}
	}
}

// NewPool starts a worker pool scheduler. Callers own its lifecycle and
// must Close it when no more continuations will be pushed.
func NewPool(optFns ...PoolOption) *Pool {
	opts := defaultPoolOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	p := &Pool{queue: make(chan Runnable, opts.depth)}
	p.wg.Add(opts.workers)
	for i := 0; i < opts.workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for r := range p.queue {
		r.Run()
	}
}

func (p *Pool) Push(r Runnable) {
	select {
	case p.queue <- r:
	default:
		go r.Run()
	}
}

func (p *Pool) PushFailure(r Runnable, _ error) { p.Push(r) }

// Close stops the workers once the queued continuations have run.
// Pushing after Close is a usage error.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}
