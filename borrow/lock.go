package borrow

// A Lock is the readers-writer lock guarding a cell. Unlike sync.RWMutex,
// a ticket acquired on one goroutine may be released on another; that is
// what allows guards to cross goroutine boundaries.
//
// At most one goroutine may block inside LockShared or LockExclusive at any
// time, and no blocking acquisition may start while a waiter is parked;
// implementations detect violations and panic. Try-variants never block and
// never panic: contention, a parked waiter, or an imminent ticket overflow
// all report failure instead.
type Lock interface {
	// LockShared acquires a shared ticket, blocking or panicking per the
	// implementation's contention policy.
	LockShared()
	// TryLockShared acquires a shared ticket without blocking and
	// reports whether it succeeded.
	TryLockShared() bool
	// UnlockShared releases one shared ticket.
	UnlockShared()
	// LockExclusive acquires the exclusive ticket, blocking or panicking
	// per the implementation's contention policy.
	LockExclusive()
	// TryLockExclusive acquires the exclusive ticket without blocking
	// and reports whether it succeeded.
	TryLockExclusive() bool
	// UnlockExclusive releases the exclusive ticket.
	UnlockExclusive()
}
