package pick

import (
	"runtime"
	"sync/atomic"
)

// Cell states. Negative values are terminal, zero is idle, positive is
// the transient lock that serializes queue mutation.
const (
	stateFailed    int32 = -2
	stateCompleted int32 = -1
	stateRunning   int32 = 0
	stateLocked    int32 = 1
)

// State is the externally visible lifecycle stage of a cell. The locked
// window is invisible from outside: observers see Running until a
// terminal transition lands.
type State int32

const (
	Running State = iota
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "<unknown>"
	}
}

// Cell is a write-once container shared by any number of readers and
// exactly one resolving producer. Readers register continuations through
// Block or Offer and are resumed by a Scheduler once the cell settles;
// none of the operations block the calling goroutine.
type Cell[T any] struct {
	state atomic.Int32
	value T
	fail  *Failure
	head  *node[T]

	obs Observer
}

// New returns an empty Running cell.
func New[T any](optFns ...Option) *Cell[T] {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Cell[T]{obs: opts.Observer}
}

// NewCompleted returns a cell born in the Completed state. No wait queue
// ever materializes for it: every reader takes the terminal fast path.
func NewCompleted[T any](v T, optFns ...Option) *Cell[T] {
	c := New[T](optFns...)
	c.value = v
	c.state.Store(stateCompleted)
	return c
}

// NewFailed returns a cell born in the Failed state, holding err as its
// permanent failure.
func NewFailed[T any](err error, optFns ...Option) *Cell[T] {
	c := New[T](optFns...)
	c.fail = newFailure(err)
	c.state.Store(stateFailed)
	return c
}

// State reports the cell's lifecycle stage.
func (c *Cell[T]) State() State {
	switch c.state.Load() {
	case stateCompleted:
		return Completed
	case stateFailed:
		return Failed
	default:
		return Running
	}
}

// Value returns the completed value. ok is false while the cell has not
// completed, including when it failed.
func (c *Cell[T]) Value() (v T, ok bool) {
	if c.state.Load() != stateCompleted {
		return v, false
	}
	return c.value, true
}

// Err returns the failure error, or nil while the cell has not failed.
// Every call returns the identical error instance the producer supplied.
func (c *Cell[T]) Err() error {
	if c.state.Load() != stateFailed {
		return nil
	}
	return c.fail.Err()
}

// Failure returns the terminal failure record, or nil while the cell has
// not failed.
func (c *Cell[T]) Failure() *Failure {
	if c.state.Load() != stateFailed {
		return nil
	}
	return c.fail
}

// Block registers k as a reader of c and returns immediately. If c is
// already terminal, k is resolved on the spot and handed to s; otherwise
// k is parked until a producer settles the cell. The calling goroutine
// never waits: suspension is entirely the scheduler's business.
func (c *Cell[T]) Block(s Scheduler, k *Continuation[T]) {
	for spins := 0; ; spins++ {
		switch c.state.Load() {
		case stateCompleted:
			c.deliver(s, k, false)
			return
		case stateFailed:
			c.deliver(s, k, true)
			return
		case stateRunning:
			if c.state.CompareAndSwap(stateRunning, stateLocked) {
				c.head = &node[T]{cont: k, next: c.head}
				c.state.Store(stateRunning)
				if c.obs != nil {
					c.obs.ReaderParked()
				}
				return
			}
		default:
			backoff(spins)
		}
	}
}

// Offer registers k as alternative idx of the selective-synchronization
// attempt arbitrated by p, then invokes next so the remaining
// alternatives of the attempt are registered as part of the same call
// chain. If c is already terminal the pick is claimed first: winning
// resolves and schedules k and nacks every other registered alternative;
// losing does nothing, because the attempt was decided before this offer
// began and the chain needs no further registrations.
func (c *Cell[T]) Offer(s Scheduler, idx int, p *Pick, k *Continuation[T], next func()) {
	for spins := 0; ; spins++ {
		switch c.state.Load() {
		case stateCompleted:
			if p.TryClaim(idx) {
				p.SetNacks(idx)
				c.deliver(s, k, false)
			}
			return
		case stateFailed:
			if p.TryClaim(idx) {
				p.SetNacks(idx)
				c.deliver(s, k, true)
			}
			return
		case stateRunning:
			if c.state.CompareAndSwap(stateRunning, stateLocked) {
				k.idx, k.pick = idx, p
				c.head = &node[T]{cont: k, next: c.head}
				c.state.Store(stateRunning)
				if c.obs != nil {
					c.obs.ReaderParked()
				}
				if next != nil {
					next()
				}
				return
			}
		default:
			backoff(spins)
		}
	}
}

// Complete settles the cell with v and resumes every parked reader.
// Plain readers are scheduled directly; alt readers first race for their
// pick, and only the claim winner is scheduled, with the rest of its
// attempt nacked. Completing an already settled cell panics with a
// *UsageError.
func (c *Cell[T]) Complete(s Scheduler, v T) {
	q := c.acquire("Complete")
	c.value = v
	c.state.Store(stateCompleted)
	if c.obs != nil {
		c.obs.CellResolved(false)
	}
	for n := q; n != nil; n = n.next {
		k := n.cont
		if k.pick == nil {
			c.deliver(s, k, false)
			continue
		}
		if k.pick.TryClaim(k.idx) {
			k.pick.SetNacks(k.idx)
			c.deliver(s, k, false)
		}
		// A losing alternative needs no work here: the winner's
		// SetNacks already retracted it.
	}
}

// Fail settles the cell with err and resumes every parked reader with
// that same error instance. The pick protocol is identical to Complete.
// Failing an already settled cell panics with a *UsageError.
func (c *Cell[T]) Fail(s Scheduler, err error) {
	q := c.acquire("Fail")
	c.fail = newFailure(err)
	c.state.Store(stateFailed)
	if c.obs != nil {
		c.obs.CellResolved(true)
	}
	for n := q; n != nil; n = n.next {
		k := n.cont
		if k.pick == nil {
			c.deliver(s, k, true)
			continue
		}
		if k.pick.TryClaim(k.idx) {
			k.pick.SetNacks(k.idx)
			c.deliver(s, k, true)
		}
	}
}

// acquire spins until it owns the locked state and returns the drained
// queue. Finding the cell already terminal is a contract violation: the
// spin can only ever wait out a reader registration or the other half of
// a double resolve, and the latter must surface, not deadlock.
func (c *Cell[T]) acquire(op string) *node[T] {
	for spins := 0; ; spins++ {
		st := c.state.Load()
		if st < stateRunning {
			panic(&UsageError{Op: op})
		}
		if st == stateRunning && c.state.CompareAndSwap(stateRunning, stateLocked) {
			q := c.head
			c.head = nil
			return q
		}
		backoff(spins)
	}
}

// deliver resolves k from the cell's terminal slots and hands it to s.
func (c *Cell[T]) deliver(s Scheduler, k *Continuation[T], failed bool) {
	if failed {
		k.err = c.fail.Err()
		s.PushFailure(k, k.err)
	} else {
		k.val = c.value
		s.Push(k)
	}
	if c.obs != nil {
		c.obs.ReaderResumed(failed)
	}
}

// backoff yields after a short burst of spins. The locked window covers
// a single pointer swap, so contention is short-lived.
func backoff(spins int) {
	if spins%16 == 15 {
		runtime.Gosched()
	}
}
