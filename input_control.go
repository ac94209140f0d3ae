// input_control.go - Event-thread dispatch: key/note events to triggers and cycling

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"log"
	"sync"
	"sync/atomic"
)

// Kernel key event values.
const (
	KEY_VALUE_UP     = 0
	KEY_VALUE_DOWN   = 1
	KEY_VALUE_REPEAT = 2
)

const MIDI_VELOCITY_MAX = 127

// Controller turns already-decoded input intents into trigger pushes and
// sample-bank cycling. The only state it shares with the audio thread is
// the trigger ring and the bank's active handle, both lock-free on the
// audio side. Device-free, so the dispatch rules are testable without
// hardware.
type Controller struct {
	ring    *TriggerRing
	bank    *SampleBank
	keyMap  map[uint16]ResolvedBinding
	noteMap map[uint8]ResolvedBinding
	cycling CyclingKeys

	// The ring has exactly one producer. Keyboard events and MIDI
	// callbacks arrive on different goroutines, so pushes are serialized
	// here. The audio thread's consumer side never takes this lock.
	pushMu  sync.Mutex
	dropped atomic.Uint64 // Triggers rejected by a full ring
}

func NewController(ring *TriggerRing, bank *SampleBank, cfg *ResolvedConfig) *Controller {
	return &Controller{
		ring:    ring,
		bank:    bank,
		keyMap:  cfg.KeyMap,
		noteMap: cfg.NoteMap,
		cycling: cfg.Cycling,
	}
}

// HandleKeyEvent processes one key event. Only key-down (value 1) acts;
// key-up and auto-repeat are ignored. Cycling keys take priority over
// sample bindings, and config validation guarantees they never overlap.
func (c *Controller) HandleKeyEvent(code uint16, value int32) {
	if value != KEY_VALUE_DOWN {
		return
	}

	switch {
	case code != 0 && code == c.cycling.NextKit:
		debugf("cycling: next kit")
		c.bank.CycleKit(true)
	case code != 0 && code == c.cycling.PrevKit:
		debugf("cycling: previous kit")
		c.bank.CycleKit(false)
	case code != 0 && code == c.cycling.NextVariant:
		debugf("cycling: next variant")
		c.bank.CycleVariant(true)
	case code != 0 && code == c.cycling.PrevVariant:
		debugf("cycling: previous variant")
		c.bank.CycleVariant(false)
	default:
		if binding, ok := c.keyMap[code]; ok {
			debugf("key down: %s slot=%d gain=%.2f", KeyNameByCode(code), binding.SampleIndex, binding.Gain)
			c.pushTrigger(binding.SampleIndex, binding.Gain)
		}
	}
}

// HandleNoteOn processes one MIDI note-on. Velocity scales the trigger
// gain; the note's configured gain composes on top of it.
func (c *Controller) HandleNoteOn(note uint8, velocity uint8) {
	binding, ok := c.noteMap[note]
	if !ok {
		return
	}
	gain := binding.Gain * float32(velocity) / MIDI_VELOCITY_MAX
	debugf("note on: note=%d velocity=%d slot=%d", note, velocity, binding.SampleIndex)
	c.pushTrigger(binding.SampleIndex, gain)
}

func (c *Controller) pushTrigger(slot uint32, gain float32) {
	c.pushMu.Lock()
	ok := c.ring.TryPush(Trigger{SampleIndex: slot, Gain: gain})
	c.pushMu.Unlock()
	if ok {
		return
	}
	// A full ring means the audio thread is not draining fast enough.
	// The trigger is dropped; playback continues unaffected.
	n := c.dropped.Add(1)
	log.Printf("trigger ring full, dropped trigger for slot %d (%d dropped total)", slot, n)
}

// DroppedTriggers reports how many triggers were rejected by a full ring.
func (c *Controller) DroppedTriggers() uint64 {
	return c.dropped.Load()
}
