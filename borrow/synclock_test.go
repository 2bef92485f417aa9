package borrow

import (
	"runtime"
	"testing"
	"time"
)

// parkShared blocks a goroutine in LockShared behind the exclusive holder
// and spins until it has parked.
func parkShared(t *testing.T, l *SyncLock) <-chan struct{} {
	t.Helper()
	woke := make(chan struct{})
	go func() {
		l.LockShared()
		close(woke)
	}()
	for l.count.Load() != parkedFlag|exclusiveFlag {
		runtime.Gosched()
	}
	return woke
}

func TestSyncLockSharedRoundTrip(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	for i := 0; i < 3; i++ {
		l.LockShared()
	}
	for i := 0; i < 3; i++ {
		l.UnlockShared()
	}
	if got := l.count.Load(); got != 0 {
		t.Fatalf("state word not restored after round trip: %#x", got)
	}
	if !l.TryLockExclusive() {
		t.Fatal("exclusive acquisition should succeed on a fully released lock")
	}
	l.UnlockExclusive()
}

func TestSyncLockTryExclusiveFailsUnderShared(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	l.LockShared()
	if l.TryLockExclusive() {
		t.Fatal("exclusive acquisition should fail while a shared ticket is held")
	}
	l.UnlockShared()
}

func TestSyncLockTrySharedFailsUnderExclusive(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	l.LockExclusive()
	if l.TryLockShared() {
		t.Fatal("shared acquisition should fail while the exclusive ticket is held")
	}
	if got := l.count.Load(); got != exclusiveFlag {
		t.Fatalf("failed try should roll the state word back, got %#x", got)
	}
	l.UnlockExclusive()
}

func TestSyncLockExclusiveWaitsForSharedHolders(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	const n = 3
	for i := 0; i < n; i++ {
		l.LockShared()
	}
	acquired := make(chan struct{})
	go func() {
		l.LockExclusive()
		close(acquired)
	}()
	for i := 0; i < n; i++ {
		time.Sleep(20 * time.Millisecond)
		select {
		case <-acquired:
			t.Fatalf("exclusive acquired with %d shared tickets outstanding", n-i)
		default:
		}
		l.UnlockShared()
	}
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("exclusive acquisition did not complete after tickets drained")
	}
	l.UnlockExclusive()
}

func TestSyncLockSharedWaitsForExclusiveHolder(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	l.LockExclusive()
	acquired := make(chan struct{})
	go func() {
		l.LockShared()
		close(acquired)
	}()
	time.Sleep(30 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("shared acquired while the exclusive ticket was held")
	default:
	}
	l.UnlockExclusive()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("shared acquisition did not complete after exclusive release")
	}
	l.UnlockShared()
	if got := l.count.Load(); got != 0 {
		t.Fatalf("state word not restored: %#x", got)
	}
}

// Repeated shared<->exclusive handoff. A lost wakeup would leave one side
// parked forever and time the test out.
func TestSyncLockHandoffNoLostWakeup(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	for i := 0; i < 500; i++ {
		l.LockShared()
		drained := make(chan struct{})
		go func() {
			l.LockExclusive()
			close(drained)
		}()
		l.UnlockShared()
		select {
		case <-drained:
		case <-time.After(2 * time.Second):
			t.Fatalf("iteration %d: exclusive waiter was never woken", i)
		}
		l.UnlockExclusive()
	}
}

// A try acquisition landing in the window between the exclusive release and
// the parked reader's wakeup must fail and leave the handoff intact. Getting
// in first and keeping the shared ticket would strand the reader forever.
func TestSyncLockHandoffSurvivesTryStealers(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	for i := 0; i < 300; i++ {
		l.LockExclusive()
		woke := parkShared(t, l)
		l.UnlockExclusive()
		for j := 0; j < 100; j++ {
			if l.TryLockShared() {
				l.UnlockShared()
			}
			if l.TryLockExclusive() {
				l.UnlockExclusive()
			}
		}
		select {
		case <-woke:
		case <-time.After(2 * time.Second):
			t.Fatalf("iteration %d: parked reader never woke (state %#x)", i, l.count.Load())
		}
		l.UnlockShared()
	}
}

func TestSyncLockTrySharedFailsWhileWaiterParked(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	l.LockExclusive()
	woke := parkShared(t, l)
	if l.TryLockShared() {
		t.Fatal("shared try should fail while a waiter is parked")
	}
	if got := l.count.Load(); got != parkedFlag|exclusiveFlag {
		t.Fatalf("failed try perturbed the state word: %#x", got)
	}
	if l.TryLockExclusive() {
		t.Fatal("exclusive try should fail while a waiter is parked")
	}
	l.UnlockExclusive()
	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("parked reader never woke after the failed tries")
	}
	l.UnlockShared()
	if got := l.count.Load(); got != 0 {
		t.Fatalf("state word not restored: %#x", got)
	}
}

func TestSyncLockSharedOverflow(t *testing.T) {
	t.Parallel()
	l := NewSyncLock()
	// One ticket short of the threshold: the next acquisition still
	// succeeds, the one after that must fail.
	l.count.Store(sharedMax - 1)
	l.LockShared()
	if got := l.count.Load(); got != sharedMax {
		t.Fatalf("expected count at threshold, got %#x", got)
	}
	if l.TryLockShared() {
		t.Fatal("try acquisition at the overflow threshold should fail")
	}
	if got := l.count.Load(); got != sharedMax {
		t.Fatalf("failed try should roll back, got %#x", got)
	}
	mustPanic(t, func() { l.LockShared() })
	if got := l.count.Load(); got != sharedMax {
		t.Fatalf("overflow panic should roll back, got %#x", got)
	}
}
