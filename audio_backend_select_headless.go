//go:build headless || !linux

// audio_backend_select_headless.go - Backend dispatch when no real device is available

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

func NewAudioOutput(backend int, sampleRate int, mixer *VoiceMixer) (AudioOutput, error) {
	return NewHeadlessOutput(sampleRate, mixer)
}
