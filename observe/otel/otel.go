package otel

// Nop is a no-op implementation of the pick.Observer interface.
// It serves as a placeholder for an OpenTelemetry-backed observer without adding dependencies.
type Nop struct{}

// NewNop returns a no-op observer.
func NewNop() *Nop { return &Nop{} }

func (*Nop) ReaderParked()        {}
func (*Nop) ReaderResumed(bool)   {}
func (*Nop) CellResolved(bool)    {}
func (*Nop) PickDecided(int)      {}
func (*Nop) NackSent(int)         {}
