// sample_data_test.go - WAV decoding and validation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/youpy/go-wav"
)

// writeWAVFixture writes a 16-bit PCM file. Frame values are raw int16
// amplitudes, so 16384 decodes to exactly 0.5.
func writeWAVFixture(t *testing.T, path string, sampleRate, channels int, frames [][2]int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(len(frames)), uint16(channels), uint32(sampleRate), 16)
	samples := make([]wav.Sample, len(frames))
	for i, frame := range frames {
		samples[i] = wav.Sample{Values: frame}
	}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatalf("write fixture samples: %v", err)
	}
}

func TestLoadWAVMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kick.wav")
	writeWAVFixture(t, path, SAMPLE_RATE, 1, [][2]int{{16384}, {-8192}})

	sample, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if sample.Channels != 1 {
		t.Fatalf("Channels = %d, want 1", sample.Channels)
	}
	if sample.SampleRate != SAMPLE_RATE {
		t.Fatalf("SampleRate = %d, want %d", sample.SampleRate, SAMPLE_RATE)
	}
	if sample.NumFrames() != 2 {
		t.Fatalf("NumFrames = %d, want 2", sample.NumFrames())
	}
	if sample.Frames[0] != 0.5 || sample.Frames[1] != -0.25 {
		t.Fatalf("Frames = %v, want [0.5 -0.25]", sample.Frames)
	}
}

func TestLoadWAVStereoInterleaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snare.wav")
	writeWAVFixture(t, path, SAMPLE_RATE, 2, [][2]int{{16384, -16384}, {8192, -8192}})

	sample, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if sample.Channels != 2 {
		t.Fatalf("Channels = %d, want 2", sample.Channels)
	}
	if sample.NumFrames() != 2 {
		t.Fatalf("NumFrames = %d, want 2", sample.NumFrames())
	}
	want := []float32{0.5, -0.5, 0.25, -0.25}
	for i, w := range want {
		if sample.Frames[i] != w {
			t.Fatalf("Frames[%d] = %v, want %v", i, sample.Frames[i], w)
		}
	}
}

func TestLoadWAVRejectsWrongSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hat.wav")
	writeWAVFixture(t, path, 44100, 1, [][2]int{{1000}})

	if _, err := LoadWAV(path); err == nil {
		t.Fatal("expected a sample-rate mismatch error, got nil")
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, err := LoadWAV(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected an error for a missing file, got nil")
	}
}

func TestDurationSeconds(t *testing.T) {
	sample := &SampleData{
		Frames:     make([]float32, SAMPLE_RATE/2),
		Channels:   1,
		SampleRate: SAMPLE_RATE,
	}
	if d := sample.DurationSeconds(); math.Abs(d-0.5) > 1e-9 {
		t.Fatalf("DurationSeconds = %v, want 0.5", d)
	}
}
