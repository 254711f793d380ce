package tracing

import (
	"sync"
	"sync/atomic"
)

// DefaultMaxEvents is the ring buffer capacity used when none is configured.
const DefaultMaxEvents = 10000

// RingBuffer is a bounded FIFO of Events. When full, each Push evicts
// exactly the oldest event. Goroutine-safe for concurrent Push and read
// operations.
//
// The backing slice grows on demand up to the capacity and is released by
// Clear, so an idle or freshly cleared buffer holds no event storage.
type RingBuffer struct {
	mu      sync.Mutex
	buf     []Event
	size    int
	head    int // oldest entry once buf is full; 0 while growing
	evicted atomic.Uint64
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultMaxEvents
	}
	return &RingBuffer{size: size}
}

// Push appends e, dropping the oldest event first if the buffer is full.
func (r *RingBuffer) Push(e Event) {
	r.mu.Lock()
	if len(r.buf) < r.size {
		r.buf = append(r.buf, e)
		r.mu.Unlock()
		return
	}
	r.buf[r.head] = e
	r.head = (r.head + 1) % r.size
	r.mu.Unlock()
	r.evicted.Add(1)
}

// Snapshot returns a copy of all events in push order (oldest first).
// The returned slice is safe to use without locks.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buf) == 0 {
		return nil
	}

	result := make([]Event, len(r.buf))
	n := copy(result, r.buf[r.head:])
	copy(result[n:], r.buf[:r.head])
	return result
}

// Last returns the n most recent events in push order.
// If n > Len, returns all events. If n <= 0, returns nil.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	count := len(r.buf)
	if count == 0 {
		return nil
	}
	if n > count {
		n = count
	}

	result := make([]Event, n)
	start := (r.head + count - n) % count
	if start+n <= count {
		copy(result, r.buf[start:start+n])
	} else {
		first := copy(result, r.buf[start:])
		copy(result[first:], r.buf[:n-first])
	}
	return result
}

// Clear drops every event and releases the backing storage. Calling it on
// an empty buffer is a no-op.
func (r *RingBuffer) Clear() {
	r.mu.Lock()
	r.buf = nil
	r.head = 0
	r.mu.Unlock()
}

// Len returns the number of events currently in the buffer.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int {
	return r.size
}

// Evicted returns how many events have been dropped to make room since
// creation.
func (r *RingBuffer) Evicted() uint64 {
	return r.evicted.Load()
}

// Stats returns event counts by level over all buffered events.
func (r *RingBuffer) Stats() map[Level]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Level]int)
	for i := range r.buf {
		counts[r.buf[i].Level]++
	}
	return counts
}
