package borrow

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Packed layout of the SyncLock state word. The low bits carry the
// shared-ticket count; the two high bits flag an exclusive holder and a
// parked waiter.
const (
	parkedFlag    uint64 = 1 << 63
	exclusiveFlag uint64 = 1 << 62

	// sharedMax is the reserved overflow threshold. A shared acquire that
	// reads this value must fail: one more increment would start eating
	// into exclusiveFlag.
	sharedMax = exclusiveFlag - 2
)

// SyncLock is the goroutine-safe Lock. All state lives in a single atomic
// word; a contended acquisition parks on a one-slot channel and waits, with
// no timeout, until the holders release. Tickets may be released on any
// goroutine, and try-variants may be called from any goroutine at any time.
//
// A parked waiter owns the parked flag until it claims the lock: releasers
// leave the flag in place, so an acquirer racing into the handoff window
// either fails (try-variants) or queues behind the flag. The zero value is
// not ready for use; construct with NewSyncLock.
type SyncLock struct {
	count atomic.Uint64
	park  parker
}

// NewSyncLock returns an unlocked SyncLock.
func NewSyncLock() *SyncLock {
	return &SyncLock{park: newParker()}
}

func (l *SyncLock) LockShared() {
	old := l.count.Add(1) - 1
	if old < sharedMax {
		return
	}
	l.lockSharedSlow(old)
}

func (l *SyncLock) TryLockShared() bool {
	old := l.count.Add(1) - 1
	if old < sharedMax {
		return true
	}
	// Exclusive holder, parked waiter, or imminent overflow; undo the
	// increment and report failure.
	l.releaseSharedSlot()
	return false
}

func (l *SyncLock) UnlockShared() {
	old := l.count.Add(^uint64(0)) + 1
	if old == parkedFlag|1 {
		// Last shared ticket, and a waiter is parked: the word is now
		// the bare flag, which only the waiter's claim may clear.
		l.park.wake()
		return
	}
	if old&exclusiveFlag != 0 || old&^parkedFlag == 0 {
		panic(fmt.Sprintf("borrow: shared release without ticket (state %#x)", old))
	}
}

func (l *SyncLock) LockExclusive() {
	if l.count.CompareAndSwap(0, exclusiveFlag) {
		return
	}
	l.lockExclusiveSlow()
}

func (l *SyncLock) TryLockExclusive() bool {
	return l.count.CompareAndSwap(0, exclusiveFlag)
}

func (l *SyncLock) UnlockExclusive() {
	old := l.count.Add(^(exclusiveFlag - 1)) + exclusiveFlag
	if old&exclusiveFlag == 0 {
		panic(fmt.Sprintf("borrow: exclusive release without ticket (state %#x)", old))
	}
	if old&parkedFlag != 0 {
		// A waiter parked in one of the slow paths. Residual low bits
		// are failed try increments; their rollback re-posts the wake
		// if the waiter's claim loses this one.
		l.park.wake()
	}
}

// releaseSharedSlot undoes one shared increment. If the decrement drains the
// word to the bare parked flag it re-posts the handoff wake, so a failed try
// can never swallow a parked waiter's turn.
func (l *SyncLock) releaseSharedSlot() {
	old := l.count.Add(^uint64(0)) + 1
	if old == parkedFlag|1 {
		l.park.wake()
	}
}

// parkAndClaim waits on the parking channel until it can claim the word from
// the bare parked flag to target. Tokens may arrive early (posted before the
// waiter blocks) or stale (left by rollback traffic); a claim that fails
// just waits again, because every decrement that drains the word to the bare
// flag posts a fresh token.
func (l *SyncLock) parkAndClaim(target uint64) {
	for {
		l.park.wait()
		if l.count.CompareAndSwap(parkedFlag, target) {
			return
		}
	}
}

func (l *SyncLock) lockSharedSlow(old uint64) {
	if old == sharedMax {
		l.releaseSharedSlot()
		panic("borrow: shared ticket count overflow")
	}
	if old&parkedFlag != 0 {
		l.releaseSharedSlot()
		panic("borrow: blocking acquisition while a waiter is parked")
	}
	if old&exclusiveFlag == 0 {
		l.releaseSharedSlot()
		panic(fmt.Sprintf("borrow: lock state corrupted (state %#x)", old))
	}
	// An exclusive holder is present and this goroutine's increment is in
	// the word. Fold the increment into the parked flag and wait, unless
	// the holder releases first.
	for {
		if l.count.CompareAndSwap(exclusiveFlag+1, parkedFlag|exclusiveFlag) {
			l.parkAndClaim(1)
			return
		}
		v := l.count.Load()
		if v&parkedFlag != 0 {
			l.releaseSharedSlot()
			panic("borrow: blocking acquisition while a waiter is parked")
		}
		if v&exclusiveFlag == 0 {
			// Released before we parked; the increment already
			// registered this ticket.
			return
		}
		// Another increment is in flight (a try, or a second blocked
		// reader); wait for the word to settle.
		runtime.Gosched()
	}
}

func (l *SyncLock) lockExclusiveSlow() {
	old := l.count.Add(parkedFlag) - parkedFlag
	if old&parkedFlag != 0 {
		// Adding the flag twice cancels it out; restore the first
		// waiter's flag before failing.
		l.count.Add(parkedFlag)
		panic("borrow: blocking acquisition while a waiter is parked")
	}
	if old == 0 {
		// The holders released between the fast-path CAS and the add;
		// claim the bare flag without waiting. Try traffic may perturb
		// the word transiently.
		for !l.count.CompareAndSwap(parkedFlag, exclusiveFlag) {
			runtime.Gosched()
		}
		return
	}
	l.parkAndClaim(exclusiveFlag)
}

func (l *SyncLock) String() string {
	v := l.count.Load()
	if v&exclusiveFlag != 0 {
		return "SyncLock{<locked exclusively>}"
	}
	return fmt.Sprintf("SyncLock{shared: %d}", v&^parkedFlag)
}
