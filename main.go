// main.go - Main entry point for the IntuitionPads drum sampler

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

func boilerPlate() {
	fmt.Println("\nIntuitionPads")
	fmt.Println("Turn any keyboard into a drum machine.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionPads")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
}

func main() {
	boilerPlate()

	var (
		configPath  string
		devicePath  string
		listDevices bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", DefaultConfigPath(), "Path to the JSON config file")
	flagSet.StringVar(&devicePath, "device", "", "Input device path (overrides the config)")
	flagSet.BoolVar(&listDevices, "list-devices", false, "List keyboard-capable input devices and exit")
	flagSet.BoolVar(&verboseLogging, "verbose", false, "Enable debug logging")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_pads [-config path] [-device /dev/input/eventN] [-list-devices] [-verbose]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if listDevices {
		devices, err := ListInputDevices()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		PrintInputDevices(devices)
		os.Exit(0)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if devicePath == "" {
		devicePath = cfg.Device
	}
	if devicePath == "" {
		devicePath, err = PickInputDevice()
		if err != nil {
			fmt.Printf("Failed to select input device: %v\n", err)
			os.Exit(1)
		}
	}

	bank, err := NewSampleBank(cfg.SamplesDir, cfg.SampleNames)
	if err != nil {
		fmt.Printf("Failed to load samples: %v\n", err)
		os.Exit(1)
	}
	set := bank.Active()
	fmt.Printf("Loaded kit %q variant %q (%d samples)\n", set.KitName, set.VariantName, len(set.Samples))

	ring := NewTriggerRing()
	mixer := NewVoiceMixer(ring, bank, cfg.SlotGains, cfg.MasterVolume, cfg.MaxVoices)

	output, err := NewAudioOutput(cfg.AudioBackend, SAMPLE_RATE, mixer)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	mixer.AttachOutput(output)

	reader, err := OpenEvdev(devicePath, cfg.Grab)
	if err != nil {
		fmt.Printf("Failed to open input device: %v\n", err)
		os.Exit(1)
	}
	defer reader.Close()

	ctrl := NewController(ring, bank, cfg)

	var midiIn *MIDIInput
	if cfg.MIDIEnabled {
		midiIn, err = OpenMIDI(cfg.MIDIPort)
		if err != nil {
			// MIDI is additive; the keyboard keeps working without it.
			log.Printf("MIDI unavailable: %v", err)
			midiIn = nil
		} else {
			defer midiIn.Close()
		}
	}

	mixer.Start()
	defer mixer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return reader.Run(ctx, ctrl)
	})
	if midiIn != nil {
		group.Go(func() error {
			return midiIn.Run(ctx, ctrl)
		})
	}
	group.Go(func() error {
		return handleSignals(ctx, cancel, bank)
	})

	fmt.Printf("Listening on %s. Ctrl-C to quit.\n", devicePath)
	if err := group.Wait(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if n := ctrl.DroppedTriggers(); n > 0 {
		log.Printf("dropped %d triggers over the session", n)
	}
	fmt.Println("Goodbye.")
}

// handleSignals reloads the sample catalog on SIGHUP and shuts the daemon
// down on SIGINT or SIGTERM.
func handleSignals(ctx context.Context, cancel context.CancelFunc, bank *SampleBank) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				log.Println("SIGHUP: reloading sample catalog")
				if err := bank.Reload(); err != nil {
					log.Printf("reload failed, keeping current catalog: %v", err)
				} else {
					set := bank.Active()
					kit, variant := bank.Position()
					log.Printf("reloaded: kit %q variant %q (catalog position %d.%d)",
						set.KitName, set.VariantName, kit, variant)
				}
			default:
				log.Printf("%v: shutting down", sig)
				cancel()
				return nil
			}
		}
	}
}
