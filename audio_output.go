// audio_output.go - Audio backend interface and selection

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"github.com/pkg/errors"
)

const (
	SAMPLE_RATE     = 48000 // Output rate in Hz; samples must match
	OUTPUT_CHANNELS = 2     // Stereo output

	// Frames per render call for backends that let us choose. 256 frames
	// at 48kHz is ~5.3ms, inside the trigger-to-sound latency budget.
	RENDER_FRAMES = 256
)

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_HEADLESS
)

// AudioOutput is implemented by every audio backend. A backend pulls mixed
// audio by invoking the mixer's RenderBuffer from its own playback thread.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// ParseAudioBackend maps the config/flag spelling to a backend constant.
func ParseAudioBackend(name string) (int, error) {
	switch name {
	case "", "oto":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "headless":
		return AUDIO_BACKEND_HEADLESS, nil
	default:
		return 0, errors.Errorf("unknown audio backend %q (oto, alsa, headless)", name)
	}
}
