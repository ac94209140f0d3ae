// trigger_ring_test.go - Unit tests for the SPSC trigger ring

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"testing"
)

func TestTriggerRingPushDrainOrder(t *testing.T) {
	ring := NewTriggerRing()

	for i := 0; i < 10; i++ {
		if !ring.TryPush(Trigger{SampleIndex: uint32(i), Gain: 1.0}) {
			t.Fatalf("push %d failed on empty ring", i)
		}
	}

	buf := make([]Trigger, 0, RING_CAPACITY)
	buf = ring.Drain(buf)

	if len(buf) != 10 {
		t.Fatalf("drained %d triggers, want 10", len(buf))
	}
	for i, trig := range buf {
		if trig.SampleIndex != uint32(i) {
			t.Errorf("trigger %d has SampleIndex %d, want %d", i, trig.SampleIndex, i)
		}
	}
}

func TestTriggerRingDrainEmpty(t *testing.T) {
	ring := NewTriggerRing()
	buf := make([]Trigger, 0, RING_CAPACITY)

	buf = ring.Drain(buf)
	if len(buf) != 0 {
		t.Errorf("drained %d triggers from empty ring, want 0", len(buf))
	}
}

func TestTriggerRingOverflow(t *testing.T) {
	ring := NewTriggerRing()

	sent := 0
	for i := 0; i < RING_CAPACITY*2; i++ {
		if ring.TryPush(Trigger{SampleIndex: uint32(i), Gain: 1.0}) {
			sent++
		}
	}
	if sent != RING_CAPACITY {
		t.Fatalf("accepted %d pushes, want %d", sent, RING_CAPACITY)
	}

	// The queued messages must survive the rejected pushes intact.
	buf := make([]Trigger, 0, RING_CAPACITY)
	buf = ring.Drain(buf)
	if len(buf) != RING_CAPACITY {
		t.Fatalf("drained %d triggers, want %d", len(buf), RING_CAPACITY)
	}
	for i, trig := range buf {
		if trig.SampleIndex != uint32(i) {
			t.Errorf("trigger %d has SampleIndex %d, want %d", i, trig.SampleIndex, i)
		}
	}
}

func TestTriggerRingReuseAfterDrain(t *testing.T) {
	ring := NewTriggerRing()
	buf := make([]Trigger, 0, RING_CAPACITY)

	ring.TryPush(Trigger{SampleIndex: 1, Gain: 1.0})
	buf = ring.Drain(buf)
	if len(buf) != 1 {
		t.Fatalf("first drain got %d, want 1", len(buf))
	}

	buf = ring.Drain(buf)
	if len(buf) != 0 {
		t.Fatalf("second drain got %d, want 0", len(buf))
	}

	// The ring must keep working across cursor wraparound.
	for round := 0; round < 5; round++ {
		for i := 0; i < RING_CAPACITY; i++ {
			if !ring.TryPush(Trigger{SampleIndex: uint32(i), Gain: 0.5}) {
				t.Fatalf("round %d push %d failed", round, i)
			}
		}
		buf = ring.Drain(buf)
		if len(buf) != RING_CAPACITY {
			t.Fatalf("round %d drained %d, want %d", round, len(buf), RING_CAPACITY)
		}
	}
}

func TestTriggerRingGainCarried(t *testing.T) {
	ring := NewTriggerRing()
	buf := make([]Trigger, 0, RING_CAPACITY)

	ring.TryPush(Trigger{SampleIndex: 3, Gain: 0.75})
	buf = ring.Drain(buf)

	if len(buf) != 1 {
		t.Fatalf("drained %d, want 1", len(buf))
	}
	if buf[0].SampleIndex != 3 || buf[0].Gain != 0.75 {
		t.Errorf("got trigger %+v, want {3 0.75}", buf[0])
	}
}

func TestTriggerRingCrossGoroutine(t *testing.T) {
	ring := NewTriggerRing()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			ring.TryPush(Trigger{SampleIndex: uint32(i), Gain: 1.0})
		}
	}()
	<-done

	buf := make([]Trigger, 0, RING_CAPACITY)
	buf = ring.Drain(buf)
	if len(buf) != 50 {
		t.Fatalf("drained %d triggers, want 50", len(buf))
	}
}
