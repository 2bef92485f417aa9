package otel

import (
	"time"

	"github.com/NetPo4ki/go-borrow/borrow"
)

// Nop is a no-op implementation of borrow.Observer.
type Nop struct{}

// NewNop returns a no-op observer.
func NewNop() *Nop { return &Nop{} }

var _ borrow.Observer = (*Nop)(nil)

func (*Nop) CellCreated()                                    {}
func (*Nop) BorrowAcquired(borrow.BorrowKind)                {}
func (*Nop) BorrowReleased(borrow.BorrowKind, time.Duration) {}
func (*Nop) DrainStarted()                                   {}
func (*Nop) DrainFinished(time.Duration)                     {}
