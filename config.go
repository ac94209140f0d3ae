// config.go - JSON configuration loading, resolution and validation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	DEFAULT_MASTER_VOLUME = 0.8
	DEFAULT_GAIN          = 1.0
)

// Config is the on-disk shape of ~/.config/intuitionpads/config.json.
type Config struct {
	// Path to the evdev keyboard device (e.g. "/dev/input/event3").
	// Overridable by the -device flag; when empty an interactive picker runs.
	Device string `json:"device,omitempty"`

	// Audio backend: "oto" (default), "alsa" or "headless".
	AudioBackend string `json:"audioBackend,omitempty"`

	// Master volume multiplier 0.0-1.0. Defaults to 0.8 when omitted.
	MasterVolume *float32 `json:"masterVolume,omitempty"`

	// Maximum simultaneous voices. Defaults to 32 when omitted.
	MaxVoices int `json:"maxVoices,omitempty"`

	// Root directory of the root/<kit>/<variant>/<sample.wav> layout.
	SamplesDir string `json:"samplesDir"`

	// Grab the input device exclusively so bound keys do not reach other
	// applications. Defaults to true.
	Grab *bool `json:"grab,omitempty"`

	Bindings []BindingConfig `json:"bindings"`
	Cycling  CyclingConfig   `json:"cycling,omitempty"`
	MIDI     MIDIConfig      `json:"midi,omitempty"`
}

// BindingConfig maps one evdev key name to a sample file name.
type BindingConfig struct {
	Key    string   `json:"key"`            // e.g. "KEY_A"
	Sample string   `json:"sample"`         // filename within each variant
	Gain   *float32 `json:"gain,omitempty"` // 0.0-1.0, default 1.0
}

// CyclingConfig names the optional kit/variant cycling keys. A cycling key
// must not also appear as a sample binding.
type CyclingConfig struct {
	NextKit     string `json:"nextKit,omitempty"`
	PrevKit     string `json:"prevKit,omitempty"`
	NextVariant string `json:"nextVariant,omitempty"`
	PrevVariant string `json:"prevVariant,omitempty"`
}

// MIDIConfig is the optional MIDI note trigger source.
type MIDIConfig struct {
	Enabled bool             `json:"enabled,omitempty"`
	Port    string           `json:"port,omitempty"`
	Notes   []MIDINoteConfig `json:"notes,omitempty"`
}

// MIDINoteConfig maps one MIDI note number to a sample file name.
type MIDINoteConfig struct {
	Note   uint8    `json:"note"`
	Sample string   `json:"sample"`
	Gain   *float32 `json:"gain,omitempty"`
}

// ResolvedBinding is a validated binding ready for the event thread.
type ResolvedBinding struct {
	KeyCode     uint16
	SampleIndex uint32
	Gain        float32
}

// CyclingKeys holds resolved cycling key codes; 0 (KEY_RESERVED) means the
// key is not configured.
type CyclingKeys struct {
	NextKit     uint16
	PrevKit     uint16
	NextVariant uint16
	PrevVariant uint16
}

// ResolvedConfig is the validated configuration the rest of the process
// consumes. SampleNames fixes the slot order every WorkingSet is indexed
// by; SlotGains is a per-slot trim in the same order, unity for every
// slot the config creates. Binding gain travels on each trigger.
type ResolvedConfig struct {
	Device       string
	AudioBackend int
	MasterVolume float32
	MaxVoices    int
	SamplesDir   string
	Grab         bool

	SampleNames []string
	SlotGains   []float32
	KeyMap      map[uint16]ResolvedBinding
	Cycling     CyclingKeys

	MIDIEnabled bool
	MIDIPort    string
	NoteMap     map[uint8]ResolvedBinding
}

// DefaultConfigPath returns ~/.config/intuitionpads/config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".config", "intuitionpads", "config.json")
}

// ExpandTilde resolves a leading ~/ against the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

// LoadConfig reads and validates the configuration file. Every error here
// is load-time fatal: the process must not start on a bad config.
func LoadConfig(path string) (*ResolvedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return resolveConfig(&cfg)
}

func resolveConfig(cfg *Config) (*ResolvedConfig, error) {
	resolved := &ResolvedConfig{
		Device:       cfg.Device,
		MasterVolume: DEFAULT_MASTER_VOLUME,
		MaxVoices:    DEFAULT_MAX_VOICES,
		Grab:         true,
		KeyMap:       make(map[uint16]ResolvedBinding),
		NoteMap:      make(map[uint8]ResolvedBinding),
	}

	backend, err := ParseAudioBackend(cfg.AudioBackend)
	if err != nil {
		return nil, err
	}
	resolved.AudioBackend = backend

	if cfg.MasterVolume != nil {
		resolved.MasterVolume = clampGain(*cfg.MasterVolume, "masterVolume")
	}
	if cfg.MaxVoices < 0 {
		return nil, errors.Errorf("maxVoices must be positive, got %d", cfg.MaxVoices)
	}
	if cfg.MaxVoices > 0 {
		resolved.MaxVoices = cfg.MaxVoices
	}
	if cfg.Grab != nil {
		resolved.Grab = *cfg.Grab
	}

	if cfg.SamplesDir == "" {
		return nil, errors.New("samplesDir is required")
	}
	resolved.SamplesDir = ExpandTilde(cfg.SamplesDir)

	if len(cfg.Bindings) == 0 {
		return nil, errors.New("no key bindings defined")
	}

	// Multiple bindings may reference one sample file; it occupies a
	// single slot and is decoded once per working set. Gain stays on the
	// binding, never on the slot, so two bindings sharing a sample keep
	// their own levels.
	slotByName := make(map[string]uint32)
	for _, binding := range cfg.Bindings {
		code, ok := KeyCodeByName(binding.Key)
		if !ok {
			return nil, errors.Errorf("unknown key name %q (use evdev names like KEY_A, KEY_SPACE)", binding.Key)
		}
		if binding.Sample == "" {
			return nil, errors.Errorf("binding for %s has no sample", binding.Key)
		}

		slot := resolved.internSample(slotByName, binding.Sample)
		gain := gainOrDefault(binding.Gain, binding.Key)

		if _, dup := resolved.KeyMap[code]; dup {
			log.Printf("duplicate binding for %s: overwriting previous", binding.Key)
		}
		resolved.KeyMap[code] = ResolvedBinding{
			KeyCode:     code,
			SampleIndex: slot,
			Gain:        gain,
		}
	}

	if err := resolved.resolveCycling(&cfg.Cycling); err != nil {
		return nil, err
	}

	resolved.MIDIEnabled = cfg.MIDI.Enabled
	resolved.MIDIPort = cfg.MIDI.Port
	for _, note := range cfg.MIDI.Notes {
		if note.Sample == "" {
			return nil, errors.Errorf("midi note %d has no sample", note.Note)
		}
		slot := resolved.internSample(slotByName, note.Sample)
		resolved.NoteMap[note.Note] = ResolvedBinding{
			SampleIndex: slot,
			Gain:        gainOrDefault(note.Gain, "midi note"),
		}
	}

	log.Printf("config: %d bindings, %d unique samples, masterVolume=%.2f, maxVoices=%d",
		len(resolved.KeyMap), len(resolved.SampleNames), resolved.MasterVolume, resolved.MaxVoices)
	return resolved, nil
}

func (rc *ResolvedConfig) internSample(slotByName map[string]uint32, name string) uint32 {
	if slot, ok := slotByName[name]; ok {
		return slot
	}
	slot := uint32(len(rc.SampleNames))
	slotByName[name] = slot
	rc.SampleNames = append(rc.SampleNames, name)
	rc.SlotGains = append(rc.SlotGains, DEFAULT_GAIN)
	return slot
}

func (rc *ResolvedConfig) resolveCycling(cycling *CyclingConfig) error {
	entries := []struct {
		name string
		key  string
		dst  *uint16
	}{
		{"nextKit", cycling.NextKit, &rc.Cycling.NextKit},
		{"prevKit", cycling.PrevKit, &rc.Cycling.PrevKit},
		{"nextVariant", cycling.NextVariant, &rc.Cycling.NextVariant},
		{"prevVariant", cycling.PrevVariant, &rc.Cycling.PrevVariant},
	}
	for _, entry := range entries {
		if entry.key == "" {
			continue
		}
		code, ok := KeyCodeByName(entry.key)
		if !ok {
			return errors.Errorf("unknown cycling key name %q for %s", entry.key, entry.name)
		}
		if _, bound := rc.KeyMap[code]; bound {
			return errors.Errorf("cycling key %s (%s) is also a sample binding", entry.key, entry.name)
		}
		*entry.dst = code
	}
	return nil
}

func gainOrDefault(gain *float32, what string) float32 {
	if gain == nil {
		return DEFAULT_GAIN
	}
	return clampGain(*gain, what)
}

func clampGain(gain float32, what string) float32 {
	if gain < 0 {
		log.Printf("%s %v clamped to 0.0", what, gain)
		return 0
	}
	if gain > 1 {
		log.Printf("%s %v clamped to 1.0", what, gain)
		return 1
	}
	return gain
}
