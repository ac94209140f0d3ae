//go:build linux && !headless

// audio_backend_select.go - Backend constructor dispatch for full builds

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"github.com/pkg/errors"
)

func NewAudioOutput(backend int, sampleRate int, mixer *VoiceMixer) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoOutput(sampleRate, mixer)
	case AUDIO_BACKEND_ALSA:
		return NewALSAOutput(sampleRate, mixer)
	case AUDIO_BACKEND_HEADLESS:
		return NewHeadlessOutput(sampleRate, mixer)
	default:
		return nil, errors.Errorf("unknown audio backend %d", backend)
	}
}
