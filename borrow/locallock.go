package borrow

import "fmt"

const localExclusive = ^uint64(0)

// LocalLock is the single-goroutine Lock. It keeps a plain counter and never
// blocks: an acquisition that would have to wait panics instead, because a
// lone goroutine waiting for its own tickets to clear can never make
// progress. Use it for cells whose guards never leave the creating
// goroutine; it trades that restriction for skipping atomics entirely.
type LocalLock struct {
	count uint64
}

// NewLocalLock returns an unlocked LocalLock.
func NewLocalLock() *LocalLock { return &LocalLock{} }

func (l *LocalLock) LockShared() {
	if l.count == localExclusive {
		panic("borrow: deadlock (cell is exclusively borrowed)")
	}
	if l.count == localExclusive-1 {
		panic("borrow: shared ticket count overflow")
	}
	l.count++
}

func (l *LocalLock) TryLockShared() bool {
	// localExclusive-1 doubles as the overflow threshold.
	if l.count >= localExclusive-1 {
		return false
	}
	l.count++
	return true
}

func (l *LocalLock) UnlockShared() {
	if l.count == 0 || l.count == localExclusive {
		panic("borrow: shared release without ticket")
	}
	l.count--
}

func (l *LocalLock) LockExclusive() {
	if !l.TryLockExclusive() {
		panic("borrow: deadlock (cell is still borrowed)")
	}
}

func (l *LocalLock) TryLockExclusive() bool {
	if l.count != 0 {
		return false
	}
	l.count = localExclusive
	return true
}

func (l *LocalLock) UnlockExclusive() {
	if l.count != localExclusive {
		panic("borrow: exclusive release without ticket")
	}
	l.count = 0
}

func (l *LocalLock) String() string {
	if l.count == localExclusive {
		return "LocalLock{<locked exclusively>}"
	}
	return fmt.Sprintf("LocalLock{shared: %d}", l.count)
}
