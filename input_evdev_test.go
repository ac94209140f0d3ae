//go:build linux

// input_evdev_test.go - Kernel ABI constants for the evdev reader

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"testing"
	"unsafe"
)

// The reader decodes raw /dev/input records by casting, so the struct must
// match the kernel's 24-byte input_event exactly.
func TestInputEventMatchesKernelLayout(t *testing.T) {
	if size := unsafe.Sizeof(inputEvent{}); size != 24 {
		t.Fatalf("inputEvent size = %d, want 24", size)
	}
	var ev inputEvent
	if off := unsafe.Offsetof(ev.Type); off != 16 {
		t.Fatalf("Type offset = %d, want 16", off)
	}
	if off := unsafe.Offsetof(ev.Code); off != 18 {
		t.Fatalf("Code offset = %d, want 18", off)
	}
	if off := unsafe.Offsetof(ev.Value); off != 20 {
		t.Fatalf("Value offset = %d, want 20", off)
	}
}

// Golden values from linux/input.h: EVIOCGRAB = _IOW('E', 0x90, int),
// EVIOCGBIT(0, len) = _IOC(_IOC_READ, 'E', 0x20, len),
// EVIOCGNAME(len) = _IOC(_IOC_READ, 'E', 0x06, len).
func TestEvdevIoctlRequestNumbers(t *testing.T) {
	if got := evIoctlGrab(); got != 0x40044590 {
		t.Fatalf("EVIOCGRAB = %#x, want 0x40044590", got)
	}
	if unsafe.Sizeof(int(0)) == 8 {
		if got := evIoctlGBit(); got != 0x80084520 {
			t.Fatalf("EVIOCGBIT(0, 8) = %#x, want 0x80084520", got)
		}
	}
	if got := evIoctlGName(256); got != 0x81004506 {
		t.Fatalf("EVIOCGNAME(256) = %#x, want 0x81004506", got)
	}
}
