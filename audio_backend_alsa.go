//go:build linux && !headless

// audio_backend_alsa.go - ALSA audio output implementation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

type ALSAOutput struct {
	handle  *C.snd_pcm_t
	mixer   *VoiceMixer
	started bool
	playing bool
	mutex   sync.Mutex
	samples []float32
	done    chan struct{}
}

func NewALSAOutput(sampleRate int, mixer *VoiceMixer) (*ALSAOutput, error) {
	var err C.int
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	handle := C.openPCM(device, &err)
	if err < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(err)))
	}

	if err = C.setupPCM(handle, C.uint(sampleRate), C.uint(OUTPUT_CHANNELS)); err < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(err)))
	}

	return &ALSAOutput{
		handle:  handle,
		mixer:   mixer,
		samples: make([]float32, RENDER_FRAMES*OUTPUT_CHANNELS),
	}, nil
}

// pump renders and writes one period at a time until stopped. snd_pcm_writei
// blocks until the device can take the period, which paces the mixer.
func (ap *ALSAOutput) pump() {
	for {
		select {
		case <-ap.done:
			return
		default:
		}

		ap.mixer.RenderBuffer(ap.samples)
		if err := ap.write(ap.samples); err != nil {
			return
		}
	}
}

func (ap *ALSAOutput) write(samples []float32) error {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.playing || ap.handle == nil {
		return nil
	}

	numFrames := len(samples) / OUTPUT_CHANNELS
	frames := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&samples[0])), C.int(numFrames))
	if frames < 0 {
		if frames == -C.EPIPE {
			// Underrun: recover and retry once.
			C.snd_pcm_prepare(ap.handle)
			frames = C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&samples[0])), C.int(numFrames))
		}
		if frames < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(frames))))
		}
	}
	return nil
}

func (ap *ALSAOutput) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.started {
		ap.started = true
		ap.playing = true
		ap.done = make(chan struct{})
		go ap.pump()
	}
}

func (ap *ALSAOutput) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.playing {
		ap.playing = false
		ap.started = false
		close(ap.done)
	}
}

func (ap *ALSAOutput) Close() {
	ap.Stop()
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}

func (ap *ALSAOutput) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}
