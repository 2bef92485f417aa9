package borrow

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Cell binds a pointer to caller data to its own Lock. Guards issued by
// Borrow keep shared tickets on that lock; Drain takes the lock exclusively
// and therefore cannot complete while any guard is alive. Cell is a
// read-only view of the data; use MutCell when guards must also write.
//
// The cell handle is heap-allocated and stable, so guards may safely keep
// referring to it for as long as they live.
type Cell[T any] struct {
	state state[T]
}

// state is shared between a cell and every guard it issues. closed flips
// before the drain's exclusive cycle, so an acquirer that was parked while
// the drain started finds the cell closed when it finally gets a ticket.
type state[T any] struct {
	data   *T
	lock   Lock
	obs    Observer
	closed atomic.Bool
}

func newState[T any](p *T, optFns []Option) state[T] {
	if p == nil {
		panic("borrow: nil data pointer")
	}
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	lk := opts.Lock
	if lk == nil {
		lk = NewSyncLock()
	}
	if opts.Observer != nil {
		opts.Observer.CellCreated()
	}
	return state[T]{data: p, lock: lk, obs: opts.Observer}
}

// NewCell wraps p in a fresh cell. The caller owns the drain: every NewCell
// must be paired with exactly one Drain, after which the data is no longer
// referenced. Callers that want construction and drain tied to a lexical
// scope should use With instead.
func NewCell[T any](p *T, optFns ...Option) *Cell[T] {
	return &Cell[T]{state: newState(p, optFns)}
}

// Borrow acquires a shared ticket and returns a guard for it. For a
// read-only cell the only exclusive holder is the drain, so Borrow blocks
// (or, under a LocalLock, panics) only against a drain in progress.
func (c *Cell[T]) Borrow() *ReadGuard[T] {
	c.state.acquireShared()
	return newReadGuard(&c.state)
}

// TryBorrow is the non-blocking Borrow.
func (c *Cell[T]) TryBorrow() (*ReadGuard[T], bool) {
	if !c.state.tryAcquireShared() {
		return nil, false
	}
	return newReadGuard(&c.state), true
}

// Get returns the wrapped pointer without taking a ticket. The result is
// not tracked by the drain, so it must not be retained beyond the caller's
// own access to the data.
func (c *Cell[T]) Get() *T {
	c.state.check()
	return c.state.data
}

// Drain performs the destructor cycle: one exclusive acquire immediately
// followed by release. It returns only once every guard has released its
// ticket; afterwards the cell is closed and the caller's data is no longer
// referenced. Borrowing a drained cell, or draining twice, panics. Holding
// a guard on the draining goroutine across this call deadlocks.
func (c *Cell[T]) Drain() { c.state.drain() }

func (c *Cell[T]) String() string {
	if c.state.closed.Load() {
		return "Cell{<drained>}"
	}
	return fmt.Sprintf("Cell{data: %v}", *c.state.data)
}

func (s *state[T]) check() {
	if s.closed.Load() {
		panic("borrow: use of drained cell")
	}
}

// acquireShared takes a shared ticket, re-checking closed after the
// acquisition: a drain may have started while this goroutine was parked, in
// which case the ticket is handed straight back.
func (s *state[T]) acquireShared() {
	s.check()
	s.lock.LockShared()
	if s.closed.Load() {
		s.lock.UnlockShared()
		panic("borrow: use of drained cell")
	}
}

func (s *state[T]) tryAcquireShared() bool {
	s.check()
	if !s.lock.TryLockShared() {
		return false
	}
	if s.closed.Load() {
		s.lock.UnlockShared()
		panic("borrow: use of drained cell")
	}
	return true
}

// acquireExclusive and tryAcquireExclusive mirror the shared pair for
// writers.
func (s *state[T]) acquireExclusive() {
	s.check()
	s.lock.LockExclusive()
	if s.closed.Load() {
		s.lock.UnlockExclusive()
		panic("borrow: use of drained cell")
	}
}

func (s *state[T]) tryAcquireExclusive() bool {
	s.check()
	if !s.lock.TryLockExclusive() {
		return false
	}
	if s.closed.Load() {
		s.lock.UnlockExclusive()
		panic("borrow: use of drained cell")
	}
	return true
}

func (s *state[T]) drain() {
	// Close before the exclusive cycle: from this point no new borrow can
	// complete, so the cycle waits only on guards that already exist.
	if !s.closed.CompareAndSwap(false, true) {
		panic("borrow: cell drained twice")
	}
	var start time.Time
	if s.obs != nil {
		s.obs.DrainStarted()
		start = time.Now()
	}
	acquired := false
	defer func() {
		if !acquired {
			// A fail-fast lock refused the cycle; reopen so the
			// caller can release its guards and drain again.
			s.closed.Store(false)
		}
	}()
	s.lock.LockExclusive()
	acquired = true
	s.lock.UnlockExclusive()
	s.data = nil
	if s.obs != nil {
		s.obs.DrainFinished(time.Since(start))
	}
}

// With constructs a cell over p, hands it to f, and drains it before
// returning. The cell never escapes by value. Guards issued inside f may
// outlive f itself as long as they are released on some other goroutine;
// holding one on the calling goroutine past f's return deadlocks the drain.
func With[T any](p *T, f func(*Cell[T]), optFns ...Option) {
	c := NewCell(p, optFns...)
	defer c.Drain()
	f(c)
}
