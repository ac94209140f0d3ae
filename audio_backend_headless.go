// audio_backend_headless.go - No-op audio output for tests and CI

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

type HeadlessOutput struct {
	started bool
	mixer   *VoiceMixer
}

func NewHeadlessOutput(sampleRate int, mixer *VoiceMixer) (*HeadlessOutput, error) {
	return &HeadlessOutput{mixer: mixer}, nil
}

func (ho *HeadlessOutput) Start() {
	ho.started = true
}

func (ho *HeadlessOutput) Stop() {
	ho.started = false
}

func (ho *HeadlessOutput) Close() {
	ho.started = false
}

func (ho *HeadlessOutput) IsStarted() bool {
	return ho.started
}
