package beacon

import "sync"

// SignalBuffer retains the most recent signals up to a fixed capacity,
// dropping the oldest first. Safe for concurrent use.
type SignalBuffer struct {
	mu       sync.RWMutex
	signals  []Signal
	capacity int
}

// NewSignalBuffer creates an empty buffer. Capacities below one are raised to one.
func NewSignalBuffer(capacity int) *SignalBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SignalBuffer{
		signals:  make([]Signal, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a signal, evicting the oldest when full.
func (b *SignalBuffer) Push(s Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.signals) >= b.capacity {
		b.signals = append(b.signals[:0], b.signals[len(b.signals)-b.capacity+1:]...)
	}
	b.signals = append(b.signals, s)
}

// Snapshot returns a copy of the retained signals, oldest first.
func (b *SignalBuffer) Snapshot() []Signal {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Signal, len(b.signals))
	copy(out, b.signals)
	return out
}

// Find returns the retained signal with the given ID.
func (b *SignalBuffer) Find(id string) (Signal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.signals {
		if s.ID == id {
			return s, true
		}
	}
	return Signal{}, false
}

// Len returns the number of retained signals.
func (b *SignalBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.signals)
}

// Cap returns the buffer capacity.
func (b *SignalBuffer) Cap() int {
	return b.capacity
}

// Clear drops every retained signal.
func (b *SignalBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signals = b.signals[:0]
}

// CountCritical returns how many retained signals are CRITICAL.
func (b *SignalBuffer) CountCritical() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for i := range b.signals {
		if b.signals[i].Critical() {
			n++
		}
	}
	return n
}
