// Package locker exposes sync.Locker views over a borrow.MutCell so a cell
// can feed standard-library APIs such as sync.Cond. Each Lock call takes a
// guard internally and the matching Unlock releases it; the usual borrow
// rules (one blocking waiter, no draining while held) still apply.
package locker

import (
	"sync"

	"github.com/NetPo4ki/go-borrow/borrow"
)

// Write returns a Locker whose Lock takes the cell's exclusive ticket.
func Write[T any](c *borrow.MutCell[T]) sync.Locker {
	return &writeLocker[T]{c: c}
}

// Read returns a Locker whose Lock takes a shared ticket. Concurrent Lock
// calls stack; each Unlock releases one of them.
func Read[T any](c *borrow.MutCell[T]) sync.Locker {
	return &readLocker[T]{c: c}
}

type writeLocker[T any] struct {
	c  *borrow.MutCell[T]
	mu sync.Mutex
	g  *borrow.WriteGuard[T]
}

func (l *writeLocker[T]) Lock() {
	g := l.c.Write()
	l.mu.Lock()
	l.g = g
	l.mu.Unlock()
}

func (l *writeLocker[T]) Unlock() {
	l.mu.Lock()
	g := l.g
	l.g = nil
	l.mu.Unlock()
	if g == nil {
		panic("locker: Unlock without Lock")
	}
	g.Release()
}

type readLocker[T any] struct {
	c  *borrow.MutCell[T]
	mu sync.Mutex
	gs []*borrow.ReadGuard[T]
}

func (l *readLocker[T]) Lock() {
	g := l.c.Read()
	l.mu.Lock()
	l.gs = append(l.gs, g)
	l.mu.Unlock()
}

func (l *readLocker[T]) Unlock() {
	l.mu.Lock()
	n := len(l.gs)
	if n == 0 {
		l.mu.Unlock()
		panic("locker: Unlock without Lock")
	}
	g := l.gs[n-1]
	l.gs = l.gs[:n-1]
	l.mu.Unlock()
	g.Release()
}
