// input_midi.go - Optional MIDI note-on trigger source

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MIDIInput listens on one MIDI input port and forwards note-on events to
// the Controller. Purely additive: keyboard input keeps working whether or
// not a MIDI device is present.
type MIDIInput struct {
	port drivers.In
	stop func()
}

// OpenMIDI connects to the named input port, or the first available port
// when the name is empty.
func OpenMIDI(portName string) (*MIDIInput, error) {
	var in drivers.In
	if portName == "" {
		ins := midi.GetInPorts()
		if len(ins) == 0 {
			return nil, errors.New("no MIDI input ports available")
		}
		in = ins[0]
	} else {
		var err error
		in, err = midi.FindInPort(portName)
		if err != nil {
			return nil, errors.Wrapf(err, "finding MIDI port %q", portName)
		}
	}
	log.Printf("MIDI input: %s", in.String())
	return &MIDIInput{port: in}, nil
}

// Run subscribes to note-on messages and blocks until ctx is cancelled.
// The gomidi driver delivers messages on its own goroutine; the Controller
// serializes ring pushes, so sharing it with the evdev reader is safe.
func (m *MIDIInput) Run(ctx context.Context, ctrl *Controller) error {
	stop, err := midi.ListenTo(m.port, func(msg midi.Message, timestampms int32) {
		var channel, note, velocity uint8
		if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
			ctrl.HandleNoteOn(note, velocity)
		}
	})
	if err != nil {
		return errors.Wrapf(err, "listening on MIDI port %s", m.port.String())
	}
	m.stop = stop

	<-ctx.Done()
	return nil
}

// Close stops the subscription and shuts the driver down.
func (m *MIDIInput) Close() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
	midi.CloseDriver()
}
