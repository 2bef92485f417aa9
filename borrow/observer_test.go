package borrow

import (
	"sync/atomic"
	"testing"
	"time"
)

type countObserver struct {
	cells    atomic.Int64
	acquired atomic.Int64
	released atomic.Int64
	writes   atomic.Int64
	drains   atomic.Int64
}

func (o *countObserver) CellCreated() { o.cells.Add(1) }
func (o *countObserver) BorrowAcquired(kind BorrowKind) {
	o.acquired.Add(1)
	if kind == Exclusive {
		o.writes.Add(1)
	}
}
func (o *countObserver) BorrowReleased(BorrowKind, time.Duration) { o.released.Add(1) }
func (o *countObserver) DrainStarted()                            {}
func (o *countObserver) DrainFinished(time.Duration)              { o.drains.Add(1) }

func TestObserverHooks(t *testing.T) {
	t.Parallel()
	obs := &countObserver{}
	v := 1
	WithMut(&v, func(c *MutCell[int]) {
		r := c.Read()
		r.Release()
		w := c.Write()
		w.Release()
	}, WithObserver(obs))
	if obs.cells.Load() != 1 || obs.drains.Load() != 1 {
		t.Fatalf("cell/drain hooks: cells=%d drains=%d", obs.cells.Load(), obs.drains.Load())
	}
	if obs.acquired.Load() != 2 || obs.released.Load() != 2 || obs.writes.Load() != 1 {
		t.Fatalf("borrow hooks: acquired=%d released=%d writes=%d",
			obs.acquired.Load(), obs.released.Load(), obs.writes.Load())
	}
}
