package borrow

import "time"

// BorrowKind distinguishes the ticket a guard holds.
type BorrowKind int

const (
	Shared BorrowKind = iota
	Exclusive
)

func (k BorrowKind) String() string {
	if k == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// Observer receives lifecycle events from cells and guards. Hooks are
// invoked inline on the acquiring or releasing goroutine and should return
// quickly; implementations must be safe for concurrent use.
type Observer interface {
	CellCreated()
	BorrowAcquired(kind BorrowKind)
	BorrowReleased(kind BorrowKind, held time.Duration)
	DrainStarted()
	DrainFinished(wait time.Duration)
}

type Option func(*Options)

type Options struct {
	Observer Observer
	Lock     Lock
}

func defaultOptions() Options { return Options{} }

// WithObserver attaches an Observer to the cell.
func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// WithLock selects the Lock guarding the cell. The lock must start unlocked
// and must not be shared with another cell.
func WithLock(l Lock) Option { return func(o *Options) { o.Lock = l } }

// Local selects a LocalLock for the cell: borrows never block, and any
// contention (including draining with guards outstanding) panics instead.
func Local() Option { return WithLock(NewLocalLock()) }
