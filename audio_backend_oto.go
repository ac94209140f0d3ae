//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

type OtoOutput struct {
	ctx       *oto.Context
	player    *oto.Player
	mixer     atomic.Pointer[VoiceMixer] // Atomic for lock-free Read()
	sampleBuf []float32                  // Pre-allocated render buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoOutput(sampleRate int, mixer *VoiceMixer) (*OtoOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: OUTPUT_CHANNELS,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	out := &OtoOutput{ctx: ctx}
	out.mixer.Store(mixer)
	out.player = ctx.NewPlayer(out)
	// Typical oto pulls are 4096 bytes = 1024 float32 samples.
	out.sampleBuf = make([]float32, 4096)
	return out, nil
}

// Read is the oto pull path, called from the playback thread. It renders
// whole frames into the pre-allocated buffer and copies them out as bytes.
func (out *OtoOutput) Read(p []byte) (n int, err error) {
	mixer := out.mixer.Load()
	if mixer == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4
	numSamples -= numSamples % OUTPUT_CHANNELS
	if numSamples == 0 {
		return 0, nil
	}

	// Should never grow after the constructor, but stay safe if oto asks
	// for more than expected.
	if len(out.sampleBuf) < numSamples {
		out.sampleBuf = make([]float32, numSamples)
	}
	samples := out.sampleBuf[:numSamples]

	mixer.RenderBuffer(samples)

	copy(p[:numSamples*4], (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:numSamples*4])
	return numSamples * 4, nil
}

func (out *OtoOutput) Start() {
	out.mutex.Lock()
	defer out.mutex.Unlock()

	if !out.started && out.player != nil {
		out.player.Play()
		out.started = true
	}
}

func (out *OtoOutput) Stop() {
	out.mutex.Lock()
	defer out.mutex.Unlock()

	if out.started && out.player != nil {
		out.player.Pause()
		out.started = false
	}
}

func (out *OtoOutput) Close() {
	out.Stop()
	out.mutex.Lock()
	defer out.mutex.Unlock()

	if out.player != nil {
		out.player.Close()
		out.player = nil
	}
}

func (out *OtoOutput) IsStarted() bool {
	out.mutex.Lock()
	defer out.mutex.Unlock()
	return out.started
}
