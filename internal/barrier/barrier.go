// Package barrier provides a reusable cyclic barrier for a fixed set of goroutines.
package barrier

import "sync"

// Barrier blocks each caller of Wait until all parties have arrived, then
// releases them together and resets for the next round.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	gen     uint64 // Incremented every time the barrier trips
}

// New creates a barrier for the given number of parties.
func New(parties int) *Barrier {
	if parties < 1 {
		panic("barrier: parties must be at least 1")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until every party has called Wait for the current round.
// The last goroutine to arrive trips the barrier and does not block.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		return
	}

	// A goroutine released from round n may re-enter Wait for round n+1
	// before everyone else has woken; the generation check keeps the
	// sleepers of round n from being confused by it.
	for gen == b.gen {
		b.cond.Wait()
	}
}

// Parties returns the number of goroutines required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Generation returns how many times the barrier has tripped.
func (b *Barrier) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen
}
