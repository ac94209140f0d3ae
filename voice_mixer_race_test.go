// voice_mixer_race_test.go - Event-thread vs audio-thread stress

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"sync"
	"testing"
	"time"
)

// TestVoiceMixer_ConcurrentTriggerAndSwap stresses the three cross-thread
// paths at once: trigger pushes (event thread), working-set swaps (event
// thread) and RenderBuffer (audio thread). The test itself has no
// assertions - the race detector is the oracle.
// Run with: go test -race -run TestVoiceMixer_ConcurrentTriggerAndSwap -count=1
func TestVoiceMixer_ConcurrentTriggerAndSwap(t *testing.T) {
	setA := &WorkingSet{KitName: "kit", VariantName: "a",
		Samples: []*SampleData{constSample(0.25, 4096), constSample(0.125, 4096)}}
	setB := &WorkingSet{KitName: "kit", VariantName: "b",
		Samples: []*SampleData{constSample(0.0625, 4096), constSample(0.03125, 4096)}}
	bank := testBank(t, setA, setB)

	ring := NewTriggerRing()
	mixer := NewVoiceMixer(ring, bank, []float32{1.0, 0.9}, 0.8, DEFAULT_MAX_VOICES)
	mixer.Start()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Goroutine 1: event-side producer - hammers trigger pushes and
	// variant swaps
	wg.Go(func() {
		iter := uint32(0)
		for {
			select {
			case <-stop:
				return
			default:
			}
			ring.TryPush(Trigger{SampleIndex: iter % 2, Gain: 1.0})
			if iter%64 == 0 {
				bank.CycleVariant(true)
			}
			iter++
		}
	})

	// Goroutine 2: audio-side consumer - renders buffers in a loop
	wg.Go(func() {
		out := make([]float32, RENDER_FRAMES*OUTPUT_CHANNELS)
		for {
			select {
			case <-stop:
				return
			default:
			}
			mixer.RenderBuffer(out)
		}
	})

	time.Sleep(100 * time.Millisecond)
	close(stop)
	wg.Wait()
}
