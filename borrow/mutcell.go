package borrow

import "fmt"

// MutCell is the read-write variant of Cell: it issues any number of
// concurrent ReadGuards, or exactly one WriteGuard, never both at once.
type MutCell[T any] struct {
	state state[T]
}

// NewMutCell wraps p in a fresh mutable cell. See NewCell for the drain
// contract.
func NewMutCell[T any](p *T, optFns ...Option) *MutCell[T] {
	return &MutCell[T]{state: newState(p, optFns)}
}

// Read acquires a shared ticket and returns a guard for it, blocking while
// a writer holds the cell.
func (c *MutCell[T]) Read() *ReadGuard[T] {
	c.state.acquireShared()
	return newReadGuard(&c.state)
}

// TryRead is the non-blocking Read.
func (c *MutCell[T]) TryRead() (*ReadGuard[T], bool) {
	if !c.state.tryAcquireShared() {
		return nil, false
	}
	return newReadGuard(&c.state), true
}

// Write acquires the exclusive ticket and returns a guard that may mutate
// the data. It blocks until every reader has released.
func (c *MutCell[T]) Write() *WriteGuard[T] {
	c.state.acquireExclusive()
	return newWriteGuard(&c.state)
}

// TryWrite is the non-blocking Write.
func (c *MutCell[T]) TryWrite() (*WriteGuard[T], bool) {
	if !c.state.tryAcquireExclusive() {
		return nil, false
	}
	return newWriteGuard(&c.state), true
}

// Get returns the wrapped pointer without taking a ticket; see Cell.Get.
// The pointer may be written through, so the caller must not race it
// against outstanding guards.
func (c *MutCell[T]) Get() *T {
	c.state.check()
	return c.state.data
}

// TryGet returns the wrapped pointer only if no guard is outstanding, by
// passing the exclusive ticket through an acquire/release cycle. Unlike Get
// the result is known not to alias any live guard at the moment of return.
func (c *MutCell[T]) TryGet() (*T, bool) {
	if !c.state.tryAcquireExclusive() {
		return nil, false
	}
	c.state.lock.UnlockExclusive()
	return c.state.data, true
}

// Drain performs the destructor cycle; see Cell.Drain.
func (c *MutCell[T]) Drain() { c.state.drain() }

func (c *MutCell[T]) String() string {
	if c.state.closed.Load() {
		return "MutCell{<drained>}"
	}
	g, ok := c.TryRead()
	if !ok {
		return "MutCell{<locked>}"
	}
	defer g.Release()
	return fmt.Sprintf("MutCell{data: %v}", *g.Value())
}

// WithMut constructs a mutable cell over p, hands it to f, and drains it
// before returning. See With for the guard-lifetime rules.
func WithMut[T any](p *T, f func(*MutCell[T]), optFns ...Option) {
	c := NewMutCell(p, optFns...)
	defer c.Drain()
	f(c)
}
