// sample_data.go - Preloaded WAV sample data for zero-latency playback

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	wav "github.com/youpy/go-wav"
)

const (
	MIN_CHANNELS = 1 // Mono
	MAX_CHANNELS = 2 // Stereo
)

// SampleData holds one decoded sample entirely in memory. Frames are
// normalized float32 in [-1.0, 1.0], interleaved for stereo
// ([L0, R0, L1, R1, ...]). Immutable after load; shared read-only by every
// voice that plays it.
type SampleData struct {
	Frames     []float32
	Channels   int // 1 = mono, 2 = stereo
	SampleRate int // Must equal SAMPLE_RATE
}

// NumFrames returns the sample length in frames (samples per channel).
func (s *SampleData) NumFrames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.Frames) / s.Channels
}

// DurationSeconds returns the playback duration at the sample's rate.
func (s *SampleData) DurationSeconds() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(s.NumFrames()) / float64(s.SampleRate)
}

// LoadWAV decodes a WAV file into a SampleData. The file must already be at
// the output rate; mismatched rates are rejected, never resampled.
// 8/16/24-bit integer and 32-bit float PCM are handled by the decoder.
func LoadWAV(path string) (*SampleData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return nil, errors.Wrapf(err, "read WAV header of %s", path)
	}

	if int(format.SampleRate) != SAMPLE_RATE {
		return nil, errors.Errorf(
			"sample rate mismatch in %s: expected %dHz, got %dHz (convert the sample, resampling is not performed)",
			path, SAMPLE_RATE, format.SampleRate)
	}
	channels := int(format.NumChannels)
	if channels < MIN_CHANNELS || channels > MAX_CHANNELS {
		return nil, errors.Errorf(
			"unsupported channel count in %s: %d (only mono and stereo)",
			path, channels)
	}

	var frames []float32
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decode samples from %s", path)
		}
		for _, sample := range samples {
			for ch := 0; ch < channels; ch++ {
				frames = append(frames, float32(reader.FloatValue(sample, uint(ch))))
			}
		}
	}

	return &SampleData{
		Frames:     frames,
		Channels:   channels,
		SampleRate: int(format.SampleRate),
	}, nil
}
