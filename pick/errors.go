package pick

import (
	"errors"
	"fmt"
	"time"
)

// ErrResolved is wrapped by the panic payload raised when Complete or
// Fail is called on a cell that already reached a terminal state.
var ErrResolved = errors.New("cell already resolved")

// UsageError reports a violation of the cell contract: resolving a cell
// twice. It is a programmer error, delivered by panic, never returned.
// Producer-supplied failures are not UsageErrors; they are stored
// verbatim and replayed unmodified to every reader.
type UsageError struct {
	Op string // "Complete" or "Fail"
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("pick: %s: %v", e.Op, ErrResolved)
}

func (e *UsageError) Unwrap() error { return ErrResolved }

// Failure is the terminal failure record of a cell: the producer's error
// plus the moment the cell failed. The error instance is stored as given
// and every reader receives that same instance.
type Failure struct {
	err error
	at  time.Time
}

func newFailure(err error) *Failure {
	return &Failure{err: err, at: time.Now()}
}

// Err returns the producer's error, unwrapped and unmodified.
func (f *Failure) Err() error { return f.err }

// At returns the time the cell failed.
func (f *Failure) At() time.Time { return f.at }
