package borrow

// parker is a one-slot wake channel: wait blocks until a token arrives, wake
// deposits at most one token and never blocks. A token left over from a wake
// that raced ahead of its waiter shows up as a spurious wakeup, which the
// lock slow paths filter by retrying the claim CAS on the state word.
type parker struct {
	ch chan struct{}
}

func newParker() parker { return parker{ch: make(chan struct{}, 1)} }

func (p parker) wait() { <-p.ch }

func (p parker) wake() {
	select {
	case p.ch <- struct{}{}:
	default:
	}
}
