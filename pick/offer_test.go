package pick

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// offerPair registers one alternative on each cell under a shared pick,
// the way a two-way selective-synchronization attempt does.
func offerPair[T any](s Scheduler, p *Pick, a, b *Cell[T], ka, kb *Continuation[T]) {
	a.Offer(s, 0, p, ka, func() {
		b.Offer(s, 1, p, kb, nil)
	})
}

func TestSingleWinnerTwoProducers(t *testing.T) {
	t.Parallel()
	const rounds = 200
	s := GoScheduler{}
	for r := 0; r < rounds; r++ {
		a, b := New[int](), New[int]()
		p := NewPick()
		var delivered atomic.Int64
		var nacks atomic.Int64
		done := make(chan struct{}, 2)

		deliver := func(want int) *Continuation[int] {
			return Cont[int](func(v int, err error) {
				if err != nil || v != want {
					t.Errorf("bad delivery: (%d, %v), want %d", v, err, want)
				}
				delivered.Add(1)
				done <- struct{}{}
			})
		}
		p.OnNack(0, func() { nacks.Add(1); done <- struct{}{} })
		p.OnNack(1, func() { nacks.Add(1); done <- struct{}{} })
		offerPair(s, p, a, b, deliver(10), deliver(20))

		var g errgroup.Group
		g.Go(func() error { a.Complete(s, 10); return nil })
		g.Go(func() error { b.Complete(s, 20); return nil })
		if err := g.Wait(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		<-done
		<-done
		if d, n := delivered.Load(), nacks.Load(); d != 1 || n != 1 {
			t.Fatalf("round %d: delivered=%d nacks=%d, want 1 and 1", r, d, n)
		}
	}
}

func TestOfferRegistersWholeChain(t *testing.T) {
	t.Parallel()
	s := GoScheduler{}
	a, b, c := New[int](), New[int](), New[int]()
	p := NewPick()
	got := make(chan int, 1)
	k := func() *Continuation[int] {
		return Cont[int](func(v int, err error) {
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			got <- v
		})
	}
	// All three alternatives register in one call chain, none of them
	// waiting on the previous one resolving.
	a.Offer(s, 0, p, k(), func() {
		b.Offer(s, 1, p, k(), func() {
			c.Offer(s, 2, p, k(), nil)
		})
	})
	if a.head == nil || b.head == nil || c.head == nil {
		t.Fatal("expected every alternative to be parked before any producer ran")
	}
	c.Complete(s, 3)
	select {
	case v := <-got:
		if v != 3 {
			t.Fatalf("expected 3, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("winning alternative was not delivered")
	}
	if w, ok := p.Decided(); !ok || w != 2 {
		t.Fatalf("Decided() = (%d, %v), want (2, true)", w, ok)
	}
}

func TestOfferOnTerminalCellWins(t *testing.T) {
	t.Parallel()
	s := GoScheduler{}
	c := NewCompleted(5)
	p := NewPick()
	var nacked atomic.Bool
	p.OnNack(1, func() { nacked.Store(true) })
	got := make(chan int, 1)
	c.Offer(s, 0, p, Cont[int](func(v int, _ error) { got <- v }), nil)
	select {
	case v := <-got:
		if v != 5 {
			t.Fatalf("expected 5, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("offer on completed cell was not delivered")
	}
	if !nacked.Load() {
		t.Fatal("registered sibling alternative was not nacked")
	}
	if c.head != nil {
		t.Fatal("terminal offer must not touch the queue")
	}
}

func TestOfferOnTerminalCellAfterDecisionIsDropped(t *testing.T) {
	t.Parallel()
	s := GoScheduler{}
	c := NewCompleted(5)
	p := NewPick()
	if !p.TryClaim(1) {
		t.Fatal("claim on fresh pick must win")
	}
	ran := make(chan struct{}, 1)
	next := false
	c.Offer(s, 0, p, Cont[int](func(int, error) { ran <- struct{}{} }), func() { next = true })
	select {
	case <-ran:
		t.Fatal("losing alternative must not be delivered")
	case <-time.After(20 * time.Millisecond):
	}
	if next {
		t.Fatal("a decided attempt must not keep registering alternatives")
	}
}

func TestOfferOnFailedCellDeliversFailure(t *testing.T) {
	t.Parallel()
	s := GoScheduler{}
	boom := errors.New("boom")
	c := NewFailed[int](boom)
	p := NewPick()
	got := make(chan error, 1)
	c.Offer(s, 0, p, Cont[int](func(_ int, err error) { got <- err }), nil)
	if err := <-got; err != boom {
		t.Fatalf("expected the identical failure instance, got %v", err)
	}
}

func TestResourceCleanupUnderComposition(t *testing.T) {
	t.Parallel()
	const attempts = 1000
	s := GoScheduler{}
	var releases atomic.Int64
	var wins atomic.Int64
	var wg sync.WaitGroup

	var g errgroup.Group
	g.SetLimit(64)
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			a, b := New[struct{}](), New[struct{}]()
			p := NewPick()
			// Each alternative owns one scoped resource, released on
			// delivery if it wins and on nack if it loses.
			wg.Add(2)
			release := func() {
				releases.Add(1)
				wg.Done()
			}
			win := func() *Continuation[struct{}] {
				return Cont[struct{}](func(struct{}, error) {
					wins.Add(1)
					release()
				})
			}
			p.OnNack(0, release)
			p.OnNack(1, release)
			offerPair(s, p, a, b, win(), win())

			var inner errgroup.Group
			inner.Go(func() error { a.Complete(s, struct{}{}); return nil })
			inner.Go(func() error { b.Complete(s, struct{}{}); return nil })
			return inner.Wait()
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wg.Wait()
	if got := releases.Load(); got != 2*attempts {
		t.Fatalf("expected exactly %d releases, got %d", 2*attempts, got)
	}
	if got := wins.Load(); got != attempts {
		t.Fatalf("expected exactly %d winners, got %d", attempts, got)
	}
}
