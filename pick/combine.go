package pick

import "sync/atomic"

// Outcome is the settled result of one cell: exactly one of Val and Err
// is meaningful.
type Outcome[T any] struct {
	Val T
	Err error
}

// Await bridges a cell into blocking code: it parks a continuation on c
// and waits for the scheduler to resume it. Unlike the cell operations
// themselves, Await does block the calling goroutine.
func Await[T any](s Scheduler, c *Cell[T]) (T, error) {
	done := make(chan Outcome[T], 1)
	c.Block(s, Cont[T](func(v T, err error) {
		done <- Outcome[T]{Val: v, Err: err}
	}))
	o := <-done
	return o.Val, o.Err
}

// First races cells under a single pick and settles the returned cell
// with whichever input settles first, value or failure alike. Losing
// alternatives are nacked and never delivered. With no inputs the
// returned cell never settles.
func First[T any](s Scheduler, cells ...*Cell[T]) *Cell[T] {
	out := New[T]()
	p := NewPick()
	var offer func(i int) func()
	offer = func(i int) func() {
		if i >= len(cells) {
			return nil
		}
		return func() {
			k := Cont[T](func(v T, err error) {
				if err != nil {
					out.Fail(s, err)
					return
				}
				out.Complete(s, v)
			})
			cells[i].Offer(s, i, p, k, offer(i+1))
		}
	}
	if fn := offer(0); fn != nil {
		fn()
	}
	return out
}

// AllSettled waits for every input cell and settles the returned cell
// with the full list of outcomes in input order. It never fails:
// producer failures are collected, not propagated, so none is lost or
// duplicated however the inputs interleave.
func AllSettled[T any](s Scheduler, cells ...*Cell[T]) *Cell[[]Outcome[T]] {
	out := New[[]Outcome[T]]()
	n := len(cells)
	if n == 0 {
		return NewCompleted[[]Outcome[T]](nil)
	}
	outcomes := make([]Outcome[T], n)
	var pending atomic.Int32
	pending.Store(int32(n))
	for i, c := range cells {
		i := i
		c.Block(s, Cont[T](func(v T, err error) {
			outcomes[i] = Outcome[T]{Val: v, Err: err}
			if pending.Add(-1) == 0 {
				out.Complete(s, outcomes)
			}
		}))
	}
	return out
}

// Errs extracts the non-nil failures from a list of outcomes.
func Errs[T any](outcomes []Outcome[T]) []error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}
