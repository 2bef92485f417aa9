package borrow

import (
	"fmt"
	"time"
)

// ReadGuard holds one shared ticket on its cell's lock. The guard, not the
// cell, is what application code keeps, moves across goroutines, or stores
// away; the ticket it holds is what keeps the cell's drain from completing.
// Release must be called exactly once, on any goroutine.
type ReadGuard[T any] struct {
	s        *state[T]
	acquired time.Time
	released bool
}

func newReadGuard[T any](s *state[T]) *ReadGuard[T] {
	g := &ReadGuard[T]{s: s}
	if s.obs != nil {
		g.acquired = time.Now()
		s.obs.BorrowAcquired(Shared)
	}
	return g
}

// Value returns the guarded pointer. It stays valid until Release.
func (g *ReadGuard[T]) Value() *T {
	if g.released {
		panic("borrow: use of released guard")
	}
	return g.s.data
}

// Release gives the shared ticket back. Releasing twice panics.
func (g *ReadGuard[T]) Release() {
	if g.released {
		panic("borrow: guard released twice")
	}
	g.released = true
	g.s.lock.UnlockShared()
	if g.s.obs != nil {
		g.s.obs.BorrowReleased(Shared, time.Since(g.acquired))
	}
}

// Clone returns a second guard over the same cell by acquiring another
// shared ticket. It cannot block: the caller's own ticket already excludes
// writers.
func (g *ReadGuard[T]) Clone() *ReadGuard[T] {
	if g.released {
		panic("borrow: clone of released guard")
	}
	g.s.lock.LockShared()
	return newReadGuard(g.s)
}

func (g *ReadGuard[T]) String() string {
	if g.released {
		return "ReadGuard{<released>}"
	}
	return fmt.Sprintf("ReadGuard{data: %v}", *g.s.data)
}

// WriteGuard holds the exclusive ticket on its cell's lock. While it is
// alive no reader, writer, or drain can proceed, so writes through Value
// are free of races by construction. Release must be called exactly once,
// on any goroutine; the guard itself must not be used from two goroutines
// at once.
type WriteGuard[T any] struct {
	s        *state[T]
	acquired time.Time
	released bool
}

func newWriteGuard[T any](s *state[T]) *WriteGuard[T] {
	g := &WriteGuard[T]{s: s}
	if s.obs != nil {
		g.acquired = time.Now()
		s.obs.BorrowAcquired(Exclusive)
	}
	return g
}

// Value returns the guarded pointer for reading or writing. It stays valid
// until Release.
func (g *WriteGuard[T]) Value() *T {
	if g.released {
		panic("borrow: use of released guard")
	}
	return g.s.data
}

// Release gives the exclusive ticket back. Releasing twice panics.
func (g *WriteGuard[T]) Release() {
	if g.released {
		panic("borrow: guard released twice")
	}
	g.released = true
	g.s.lock.UnlockExclusive()
	if g.s.obs != nil {
		g.s.obs.BorrowReleased(Exclusive, time.Since(g.acquired))
	}
}

func (g *WriteGuard[T]) String() string {
	if g.released {
		return "WriteGuard{<released>}"
	}
	return fmt.Sprintf("WriteGuard{data: %v}", *g.s.data)
}
