//go:build linux

// input_evdev.go - Linux evdev keyboard reader

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"context"
	"log"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	EV_KEY_BIT       = 0x01 // EV_KEY bit in the EVIOCGBIT(0) capability mask
	EVDEV_POLL_MS    = 200  // Poll timeout so shutdown is noticed promptly
	EVDEV_EVENT_SIZE = int(unsafe.Sizeof(inputEvent{}))
)

// inputEvent mirrors the kernel's struct input_event on 64-bit platforms:
// a 16-byte timeval followed by type, code and value. x/sys/unix carries
// the EV_* type constants but not the record layout or the EVIOC* ioctl
// numbers, so both are spelled out here.
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// EvdevReader reads raw input events from one /dev/input/eventN device and
// feeds key events to a Controller. It owns the file descriptor and the
// optional exclusive grab.
type EvdevReader struct {
	fd      int
	path    string
	grabbed bool
}

// OpenEvdev opens an evdev device and verifies it can emit key events.
// With grab set the device is claimed exclusively, so its keystrokes no
// longer reach the rest of the desktop.
func OpenEvdev(path string, grab bool) (*EvdevReader, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input device %s", path)
	}

	caps, err := unix.IoctlGetInt(fd, evIoctlGBit())
	if err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "querying capabilities of %s", path)
	}
	if caps&(1<<EV_KEY_BIT) == 0 {
		unix.Close(fd)
		return nil, errors.Errorf("%s does not report key events", path)
	}

	r := &EvdevReader{fd: fd, path: path}
	if grab {
		if err := unix.IoctlSetInt(fd, evIoctlGrab(), 1); err != nil {
			unix.Close(fd)
			return nil, errors.Wrapf(err, "grabbing %s", path)
		}
		r.grabbed = true
		log.Printf("grabbed %s exclusively", path)
	}
	return r, nil
}

// evIoctlGBit is EVIOCGBIT(0, sizeof(int)): the top-level event type mask.
func evIoctlGBit() uint {
	const iocRead = 2
	const sizeInt = uint(unsafe.Sizeof(int(0)))
	return (iocRead << 30) | (sizeInt << 16) | ('E' << 8) | 0x20
}

// evIoctlGrab is EVIOCGRAB: _IOW('E', 0x90, int).
func evIoctlGrab() uint {
	const iocWrite = 1
	return (iocWrite << 30) | (4 << 16) | ('E' << 8) | 0x90
}

// Run polls the device and dispatches key events until ctx is cancelled.
// Events other than EV_KEY are discarded.
func (r *EvdevReader) Run(ctx context.Context, ctrl *Controller) error {
	buf := make([]byte, EVDEV_EVENT_SIZE*64)
	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}

	for {
		if ctx.Err() != nil {
			return nil
		}

		fds[0].Revents = 0
		n, err := unix.Poll(fds, EVDEV_POLL_MS)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return errors.Wrapf(err, "polling %s", r.path)
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			return errors.Errorf("input device %s disconnected", r.path)
		}

		nread, err := unix.Read(r.fd, buf)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return errors.Wrapf(err, "reading %s", r.path)
		}

		for off := 0; off+EVDEV_EVENT_SIZE <= nread; off += EVDEV_EVENT_SIZE {
			ev := (*inputEvent)(unsafe.Pointer(&buf[off]))
			if ev.Type != unix.EV_KEY {
				continue
			}
			ctrl.HandleKeyEvent(ev.Code, ev.Value)
		}
	}
}

// Close releases the grab, if held, and closes the device.
func (r *EvdevReader) Close() error {
	if r.grabbed {
		if err := unix.IoctlSetInt(r.fd, evIoctlGrab(), 0); err != nil {
			log.Printf("releasing grab on %s: %v", r.path, err)
		}
		r.grabbed = false
	}
	return unix.Close(r.fd)
}
