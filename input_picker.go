//go:build linux

// input_picker.go - Input device enumeration and interactive selection

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const EVDEV_NAME_MAX = 256

// InputDevice describes one keyboard-capable evdev device.
type InputDevice struct {
	Path string
	Name string
}

// ListInputDevices enumerates /dev/input/event* and keeps the devices that
// report key events. Devices that cannot be opened (usually a permissions
// problem) are skipped silently.
func ListInputDevices() ([]InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, errors.Wrap(err, "scanning /dev/input")
	}
	sort.Strings(paths)

	var devices []InputDevice
	for _, path := range paths {
		fd, err := unix.Open(path, unix.O_RDONLY, 0)
		if err != nil {
			continue
		}
		caps, err := unix.IoctlGetInt(fd, evIoctlGBit())
		if err != nil || caps&(1<<EV_KEY_BIT) == 0 {
			unix.Close(fd)
			continue
		}
		name := deviceName(fd)
		unix.Close(fd)
		devices = append(devices, InputDevice{Path: path, Name: name})
	}
	return devices, nil
}

// deviceName queries EVIOCGNAME for the device's human-readable name.
func deviceName(fd int) string {
	var buf [EVDEV_NAME_MAX]byte
	req := evIoctlGName(uint(len(buf)))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "(unknown)"
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

// evIoctlGName is EVIOCGNAME(len).
func evIoctlGName(size uint) uint {
	const iocRead = 2
	return (iocRead << 30) | (size << 16) | ('E' << 8) | 0x06
}

// PrintInputDevices writes the device list for the -list-devices flag.
func PrintInputDevices(devices []InputDevice) {
	if len(devices) == 0 {
		fmt.Println("No keyboard-capable input devices found (check /dev/input permissions).")
		return
	}
	for _, dev := range devices {
		fmt.Printf("  %-22s %s\n", dev.Path, dev.Name)
	}
}

// PickInputDevice prompts on the terminal for a device when none was
// configured. Requires an interactive stdin.
func PickInputDevice() (string, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", errors.New("no keyboard-capable input devices found")
	}
	if len(devices) == 1 {
		fmt.Printf("Using %s (%s)\n", devices[0].Path, devices[0].Name)
		return devices[0].Path, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("multiple input devices and no terminal to pick one; set \"device\" in the config")
	}

	fmt.Println("Select an input device:")
	for i, dev := range devices {
		fmt.Printf("  [%d] %-22s %s\n", i, dev.Path, dev.Name)
	}
	fmt.Print("> ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "reading device selection")
	}
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 0 || idx >= len(devices) {
		return "", errors.Errorf("invalid selection %q", strings.TrimSpace(line))
	}
	return devices[idx].Path, nil
}
