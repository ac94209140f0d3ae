// voice_mixer.go - Polyphonic voice pool and the audio-rate mixing loop

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
	DEFAULT_MAX_VOICES = 32

	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

// Voice is one in-progress playback instance. It keeps its own pointer to
// the WorkingSet it spawned from, so swapping the active set mid-playback
// never invalidates a sounding voice; the superseded set stays reachable
// until every such voice retires and the collector reclaims it off the
// audio thread.
type Voice struct {
	set    *WorkingSet // Set this voice spawned from
	sample *SampleData // Sample being played (owned by set)
	cursor int         // Playback position in frames
	seq    uint64      // Spawn order, lowest is stolen first
	gain   float32     // Trigger gain x binding gain, fixed at spawn
	active bool
}

// VoiceMixer renders mixed audio into the output backend's buffers. All of
// its per-callback state (voice pool, drain buffer) is allocated once at
// construction; RenderBuffer performs no allocation, takes no lock and
// makes no blocking call. Work per invocation is bounded by
// ring capacity + max voices + buffer frames x max voices.
type VoiceMixer struct {
	ring       *TriggerRing
	bank       *SampleBank
	voices     []Voice   // Fixed pool, len == max voices, never resized
	triggerBuf []Trigger // Pre-allocated drain buffer, cap == ring capacity

	slotGains    []float32 // Per-binding gain by sample slot
	masterVolume float32   // Applied once, post-sum, pre-clamp
	nextSeq      uint64    // Monotonic voice age counter

	enabled atomic.Bool
	output  AudioOutput
}

func NewVoiceMixer(ring *TriggerRing, bank *SampleBank, slotGains []float32, masterVolume float32, maxVoices int) *VoiceMixer {
	if maxVoices <= 0 {
		maxVoices = DEFAULT_MAX_VOICES
	}
	gains := make([]float32, len(slotGains))
	copy(gains, slotGains)

	return &VoiceMixer{
		ring:         ring,
		bank:         bank,
		voices:       make([]Voice, maxVoices),
		triggerBuf:   make([]Trigger, 0, RING_CAPACITY),
		slotGains:    gains,
		masterVolume: masterVolume,
	}
}

// AttachOutput hands the mixer its audio backend. Must be called before
// Start.
func (m *VoiceMixer) AttachOutput(output AudioOutput) {
	m.output = output
}

func (m *VoiceMixer) Start() {
	m.enabled.Store(true)
	if m.output != nil {
		m.output.Start()
	}
}

func (m *VoiceMixer) Stop() {
	m.enabled.Store(false)
	if m.output != nil {
		m.output.Stop()
		m.output.Close()
	}
}

// ActiveVoiceCount reports how many pool slots are sounding. Diagnostic;
// call from the rendering thread or between renders.
func (m *VoiceMixer) ActiveVoiceCount() int {
	count := 0
	for i := range m.voices {
		if m.voices[i].active {
			count++
		}
	}
	return count
}

// RenderBuffer fills out (interleaved stereo, len divisible by
// OUTPUT_CHANNELS) with one buffer of mixed, clamped audio. Called by the
// audio backend once per buffer fill; this is the only consumer of the
// trigger ring.
func (m *VoiceMixer) RenderBuffer(out []float32) {
	for i := range out {
		out[i] = 0
	}
	if !m.enabled.Load() {
		return
	}

	// One working-set snapshot per invocation: every trigger drained below
	// resolves against the same set even if a swap lands concurrently.
	activeSet := m.bank.Active()

	// 1. Drain pending triggers (bounded by ring capacity).
	m.triggerBuf = m.ring.Drain(m.triggerBuf)

	// 2. Spawn a voice per trigger, stealing the oldest when the pool is full.
	for _, trig := range m.triggerBuf {
		m.spawnVoice(activeSet, trig)
	}

	// 3. Mix active voices, advancing cursors and retiring finished ones.
	numFrames := len(out) / OUTPUT_CHANNELS
	for i := range m.voices {
		voice := &m.voices[i]
		if !voice.active {
			continue
		}
		m.mixVoice(voice, out, numFrames)
	}

	// 4. Master volume, then hard clamp. Clipping past the clamp is the
	// defined behavior; there is no limiter.
	for i := range out {
		sample := out[i] * m.masterVolume
		if sample > MAX_SAMPLE {
			sample = MAX_SAMPLE
		} else if sample < MIN_SAMPLE {
			sample = MIN_SAMPLE
		}
		out[i] = sample
	}
}

func (m *VoiceMixer) spawnVoice(set *WorkingSet, trig Trigger) {
	if set == nil || int(trig.SampleIndex) >= len(set.Samples) {
		return
	}
	sample := set.Samples[trig.SampleIndex]
	if sample == nil || sample.NumFrames() == 0 {
		return
	}

	gain := trig.Gain
	if int(trig.SampleIndex) < len(m.slotGains) {
		gain *= m.slotGains[trig.SampleIndex]
	}

	slot := m.claimSlot()
	m.nextSeq++
	m.voices[slot] = Voice{
		set:    set,
		sample: sample,
		cursor: 0,
		seq:    m.nextSeq,
		gain:   gain,
		active: true,
	}
}

// claimSlot returns a free pool index, stealing the voice with the
// smallest sequence counter when none is free. The cut is abrupt; no fade.
func (m *VoiceMixer) claimSlot() int {
	oldest := 0
	oldestSeq := uint64(1<<64 - 1)
	for i := range m.voices {
		if !m.voices[i].active {
			return i
		}
		if m.voices[i].seq < oldestSeq {
			oldestSeq = m.voices[i].seq
			oldest = i
		}
	}
	return oldest
}

func (m *VoiceMixer) mixVoice(voice *Voice, out []float32, numFrames int) {
	sample := voice.sample
	sampleChannels := sample.Channels
	sampleFrames := sample.NumFrames()

	framesToMix := sampleFrames - voice.cursor
	if framesToMix > numFrames {
		framesToMix = numFrames
	}

	gain := voice.gain
	for frame := 0; frame < framesToMix; frame++ {
		srcOffset := (voice.cursor + frame) * sampleChannels
		dstOffset := frame * OUTPUT_CHANNELS

		if sampleChannels == 1 {
			// Mono duplicates to both output channels.
			value := sample.Frames[srcOffset] * gain
			out[dstOffset] += value
			out[dstOffset+1] += value
		} else {
			out[dstOffset] += sample.Frames[srcOffset] * gain
			out[dstOffset+1] += sample.Frames[srcOffset+1] * gain
		}
	}

	voice.cursor += framesToMix
	if voice.cursor >= sampleFrames {
		// Retire: clear the references so the set becomes collectible.
		*voice = Voice{}
	}
}
