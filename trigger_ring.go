// trigger_ring.go - Lock-free SPSC trigger queue between the input and audio threads

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"sync/atomic"
)

const (
	// RING_CAPACITY must be a power of two. 128 slots is far more than
	// the fastest human drumming can queue between two buffer fills.
	RING_CAPACITY = 128
	RING_MASK     = RING_CAPACITY - 1
)

// Trigger is the fixed-size message pushed by the input thread and consumed
// exactly once by the mixer. SampleIndex refers to a slot in the active
// WorkingSet, never to sample memory itself.
type Trigger struct {
	SampleIndex uint32  // Slot in the active working set
	Gain        float32 // Per-trigger gain (0.0-1.0)
}

// TriggerRing is a fixed-capacity single-producer/single-consumer ring.
// Exactly one thread calls TryPush and exactly one thread calls Drain.
// Neither operation locks, blocks or allocates; the audio thread only ever
// performs atomic loads/stores and arithmetic here.
type TriggerRing struct {
	slots [RING_CAPACITY]Trigger

	// Cursors only ever increase; slot index is cursor & RING_MASK.
	// head is owned by the consumer, tail by the producer.
	head atomic.Uint64
	tail atomic.Uint64
}

func NewTriggerRing() *TriggerRing {
	return &TriggerRing{}
}

// TryPush enqueues a trigger. Returns false if the ring is full; the caller
// must treat that as a dropped trigger, not an error.
func (r *TriggerRing) TryPush(t Trigger) bool {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail-head >= RING_CAPACITY {
		return false
	}
	r.slots[tail&RING_MASK] = t
	// The store publishes the slot write to the consumer.
	r.tail.Store(tail + 1)
	return true
}

// Drain appends every queued trigger to out in FIFO order and empties the
// ring. out must have capacity RING_CAPACITY so no allocation occurs on the
// audio thread; the filled slice is returned.
func (r *TriggerRing) Drain(out []Trigger) []Trigger {
	out = out[:0]
	head := r.head.Load()
	tail := r.tail.Load()
	for ; head < tail; head++ {
		out = append(out, r.slots[head&RING_MASK])
	}
	r.head.Store(head)
	return out
}

// Len reports the number of queued triggers. Diagnostic only.
func (r *TriggerRing) Len() int {
	return int(r.tail.Load() - r.head.Load())
}
