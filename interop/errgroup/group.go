// Package errgroup provides an adapter that mimics golang.org/x/sync/errgroup
// semantics on top of pick cells. It enables incremental migration without
// pulling errgroup into the core library.
package errgroup

import (
	"context"
	"sync"

	"github.com/NetPo4ki/go-pick/pick"
)

// Group is an errgroup-like wrapper: each function passed to Go settles
// one cell, and Wait joins on all of them through AllSettled.
type Group struct {
	sched  pick.Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	firstErr error
	cells    []*pick.Cell[struct{}]
}

// WithContext creates a Group bound to ctx. The returned context is
// canceled when any function passed to Go returns a non-nil error.
func WithContext(ctx context.Context) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	gctx, cancel := context.WithCancel(ctx)
	g := &Group{sched: pick.GoScheduler{}, ctx: gctx, cancel: cancel}
	return g, gctx
}

// Go starts a function. It should return a non-nil error to signal failure.
func (g *Group) Go(f func() error) {
	if f == nil {
		return
	}
	c := pick.New[struct{}]()
	g.mu.Lock()
	g.cells = append(g.cells, c)
	g.mu.Unlock()
	go func() {
		if err := f(); err != nil {
			g.fail(err)
			c.Fail(g.sched, err)
			return
		}
		c.Complete(g.sched, struct{}{})
	}()
}

// Wait blocks until all functions have returned. It returns the first
// non-nil error or nil on success, and is safe to call more than once.
func (g *Group) Wait() error {
	g.mu.Lock()
	cells := make([]*pick.Cell[struct{}], len(g.cells))
	copy(cells, g.cells)
	g.mu.Unlock()
	_, _ = pick.Await(g.sched, pick.AllSettled(g.sched, cells...))
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.firstErr
}

func (g *Group) fail(err error) {
	g.mu.Lock()
	if g.firstErr == nil {
		g.firstErr = err
	}
	g.mu.Unlock()
	g.cancel()
}
