package pick

// Observer receives lifecycle events from cells and picks. All methods
// are called synchronously on the goroutine performing the operation and
// must be cheap and non-blocking.
type Observer interface {
	ReaderParked()
	ReaderResumed(failed bool)
	CellResolved(failed bool)
	PickDecided(winner int)
	NackSent(idx int)
}

type Option func(*Options)

type Options struct {
	Observer Observer
}

func defaultOptions() Options { return Options{} }

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }
