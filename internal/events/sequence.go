package events

import "sync/atomic"

// Sequencer hands out monotonically increasing sequence numbers so events
// emitted across goroutines can be ordered deterministically downstream.
type Sequencer struct {
	counter atomic.Uint64
}

// Next returns the next sequence number, starting at 1.
func (s *Sequencer) Next() uint64 {
	return s.counter.Add(1)
}
