// Package borrow lets a caller hand out references to scoped data without
// losing track of them. A Cell (read-only) or MutCell (read-write) pairs a
// pointer to caller data with its own readers-writer lock; every guard the
// cell issues holds a ticket on that lock, and draining the cell takes the
// lock exclusively, so the drain cannot complete while any guard is alive.
// Guards may be moved to other goroutines, captured by callbacks, or stored
// in type-erased containers: whatever their lifetime, the data stays
// reachable until the last ticket is released.
//
// Two lock policies exist. The default SyncLock blocks a draining (or
// writing) goroutine until outstanding tickets clear; LocalLock never blocks
// and panics on any contention, for cells whose guards never leave the
// creating goroutine. With either policy, at most one goroutine may block on
// acquisition at a time, and no new borrows may start once a drain has begun;
// violations panic rather than corrupt the lock state.
package borrow
