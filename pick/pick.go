package pick

import (
	"sync"
	"sync/atomic"
)

const undecided = -1

// Pick arbitrates one selective-synchronization attempt spanning N
// alternatives, identified by indexes in [0, N). Exactly one alternative
// ever wins the attempt; every other registered alternative is nacked.
type Pick struct {
	winner atomic.Int32

	mu    sync.Mutex
	nacks []nackEntry

	obs Observer
}

type nackEntry struct {
	idx int
	fn  func()
}

// NewPick returns an undecided pick.
func NewPick(optFns ...Option) *Pick {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	p := &Pick{obs: opts.Observer}
	p.winner.Store(undecided)
	return p
}

// TryClaim attempts to decide the pick in favor of alternative idx. It
// returns true only for the single call that performs the undecided to
// decided transition; every later call observes the same winner.
func (p *Pick) TryClaim(idx int) bool {
	won := p.winner.CompareAndSwap(undecided, int32(idx))
	if won && p.obs != nil {
		p.obs.PickDecided(idx)
	}
	return won
}

// Decided reports the winning index, if the pick has been decided.
func (p *Pick) Decided() (int, bool) {
	w := p.winner.Load()
	return int(w), w != undecided
}

// OnNack registers fn as the retract hook for alternative idx. The hook
// runs exactly once if the alternative loses, and never if it wins. A
// registration arriving after the pick was decided against idx fires
// synchronously, so late registrants keep exactly-once retract
// semantics.
func (p *Pick) OnNack(idx int, fn func()) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	if w := p.winner.Load(); w != undecided {
		p.mu.Unlock()
		if int(w) != idx {
			p.nack(idx, fn)
		}
		return
	}
	p.nacks = append(p.nacks, nackEntry{idx: idx, fn: fn})
	p.mu.Unlock()
}

// SetNacks retracts every registered alternative other than winner.
// Hooks are consumed, so a hook fires at most once even if SetNacks is
// called again.
func (p *Pick) SetNacks(winner int) {
	p.mu.Lock()
	entries := p.nacks
	p.nacks = nil
	p.mu.Unlock()
	for _, e := range entries {
		if e.idx != winner {
			p.nack(e.idx, e.fn)
		}
	}
}

func (p *Pick) nack(idx int, fn func()) {
	fn()
	if p.obs != nil {
		p.obs.NackSent(idx)
	}
}
