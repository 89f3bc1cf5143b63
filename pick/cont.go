package pick

import "sync/atomic"

// Runnable is the scheduler-facing view of a resolved continuation.
type Runnable interface {
	Run()
}

// Continuation is a parked unit of work waiting on a cell. A producer
// fills its slot with the cell's value or failure and hands it to a
// Scheduler, which then invokes the resume function exactly once.
//
// A continuation registered through Offer is additionally tagged with
// its alternative index and the Pick arbitrating the attempt; a plain
// continuation carries no pick.
type Continuation[T any] struct {
	fn  func(v T, err error)
	val T
	err error

	// alt tagging, set while the cell holds its lock; nil pick means plain.
	idx  int
	pick *Pick

	ran atomic.Bool
}

// Cont builds a continuation around fn. fn receives either the cell's
// value or its failure, never both.
func Cont[T any](fn func(v T, err error)) *Continuation[T] {
	if fn == nil {
		panic("pick: nil continuation func")
	}
	return &Continuation[T]{fn: fn}
}

// Run resumes the continuation with whatever its slot holds. The
// scheduler contract is exactly-once; the guard turns a double Run by a
// misbehaving scheduler into a no-op instead of a double resume.
func (c *Continuation[T]) Run() {
	if !c.ran.CompareAndSwap(false, true) {
		return
	}
	c.fn(c.val, c.err)
}

// node links one pending continuation into a cell's wait queue. The
// chain is only ever touched inside the cell's locked window and is
// drained by a single swap, so it needs no lock of its own.
type node[T any] struct {
	cont *Continuation[T]
	next *node[T]
}
