// sample_bank.go - Kit/variant catalog and the atomically swappable working set

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionPads
License: GPLv3 or later
*/

package main

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// WorkingSet is the complete decoded sample collection for one (kit,
// variant) pair. Samples is indexed by the stable slot order of the
// configured sample names, so a Trigger's SampleIndex resolves identically
// within any set. Immutable after load; replaced, never mutated, when the
// active kit or variant changes.
type WorkingSet struct {
	KitName     string
	VariantName string
	Samples     []*SampleData
}

// Kit groups the valid variants discovered for one kit directory, sorted
// lexicographically by variant name.
type Kit struct {
	Name     string
	Variants []*WorkingSet
}

// Catalog is the ordered result of scanning the sample root. Every
// WorkingSet it contains passed validation: all configured sample names
// present, decodable, mono or stereo, at the output rate.
type Catalog struct {
	Kits []*Kit
}

func (c *Catalog) KitCount() int {
	return len(c.Kits)
}

func (c *Catalog) VariantCount(kit int) int {
	if kit < 0 || kit >= len(c.Kits) {
		return 0
	}
	return len(c.Kits[kit].Variants)
}

// FindPosition locates a (kit, variant) pair by name. Used after a reload
// to stay on the same selection when it still exists.
func (c *Catalog) FindPosition(kitName, variantName string) (int, int, bool) {
	for ki, kit := range c.Kits {
		if kit.Name != kitName {
			continue
		}
		for vi, ws := range kit.Variants {
			if ws.VariantName == variantName {
				return ki, vi, true
			}
		}
		// Kit survived but the variant did not: first variant of the kit.
		return ki, 0, true
	}
	return 0, 0, false
}

// LoadCatalog scans the two-level root/<kit>/<variant>/ directory layout
// and eagerly decodes every sample named in sampleNames for every variant.
// Invalid variants and empty kits are excluded with a diagnostic; the scan
// fails only when nothing usable remains.
func LoadCatalog(root string, sampleNames []string) (*Catalog, error) {
	kitDirs, err := sortedSubdirs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "scan sample root %s", root)
	}

	catalog := &Catalog{}
	for _, kitName := range kitDirs {
		kitPath := filepath.Join(root, kitName)
		variantDirs, err := sortedSubdirs(kitPath)
		if err != nil {
			log.Printf("skipping kit %q: %v", kitName, err)
			continue
		}

		kit := &Kit{Name: kitName}
		for _, variantName := range variantDirs {
			ws, err := loadWorkingSet(kitPath, kitName, variantName, sampleNames)
			if err != nil {
				log.Printf("excluding variant %s/%s: %v", kitName, variantName, err)
				continue
			}
			kit.Variants = append(kit.Variants, ws)
		}

		if len(kit.Variants) == 0 {
			log.Printf("excluding kit %q: no valid variants", kitName)
			continue
		}
		catalog.Kits = append(catalog.Kits, kit)
	}

	if len(catalog.Kits) == 0 {
		return nil, errors.Errorf("no usable kits under %s", root)
	}
	return catalog, nil
}

func loadWorkingSet(kitPath, kitName, variantName string, sampleNames []string) (*WorkingSet, error) {
	ws := &WorkingSet{
		KitName:     kitName,
		VariantName: variantName,
		Samples:     make([]*SampleData, len(sampleNames)),
	}
	for i, name := range sampleNames {
		sample, err := LoadWAV(filepath.Join(kitPath, variantName, name))
		if err != nil {
			return nil, errors.Wrapf(err, "required sample %q", name)
		}
		ws.Samples[i] = sample
	}
	return ws, nil
}

func sortedSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// SampleBank owns the catalog and the single piece of state shared between
// the event thread and the audio thread: the active WorkingSet handle. The
// handle is replaced with one atomic pointer store and read with one atomic
// load; the mixer never blocks on a swap and never observes a partial set.
// All other fields belong to the event thread and sit behind the mutex.
type SampleBank struct {
	active atomic.Pointer[WorkingSet]

	mu           sync.Mutex
	root         string
	sampleNames  []string
	catalog      *Catalog
	kitIndex     int
	variantIndex int
}

// NewSampleBank loads the catalog and activates the first kit's first
// variant. Fails when the catalog has zero usable kits.
func NewSampleBank(root string, sampleNames []string) (*SampleBank, error) {
	catalog, err := LoadCatalog(root, sampleNames)
	if err != nil {
		return nil, err
	}

	bank := &SampleBank{
		root:        root,
		sampleNames: sampleNames,
		catalog:     catalog,
	}
	bank.active.Store(catalog.Kits[0].Variants[0])

	log.Printf("sample bank: %d kits, active %s/%s",
		catalog.KitCount(), bank.Active().KitName, bank.Active().VariantName)
	return bank, nil
}

// Active returns the current working set. Wait-free; this is the mixer's
// per-buffer snapshot read.
func (b *SampleBank) Active() *WorkingSet {
	return b.active.Load()
}

// Activate resolves a precomputed working set by catalog position and swaps
// it in. No decoding happens here.
func (b *SampleBank) Activate(kit, variant int) (*WorkingSet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activateLocked(kit, variant)
}

func (b *SampleBank) activateLocked(kit, variant int) (*WorkingSet, error) {
	if kit < 0 || kit >= b.catalog.KitCount() {
		return nil, errors.Errorf("kit index %d out of range", kit)
	}
	if variant < 0 || variant >= b.catalog.VariantCount(kit) {
		return nil, errors.Errorf("variant index %d out of range for kit %d", variant, kit)
	}

	ws := b.catalog.Kits[kit].Variants[variant]
	b.kitIndex = kit
	b.variantIndex = variant
	b.active.Store(ws)

	debugf("active set: kit %q variant %q (kit %d/%d, variant %d/%d)",
		ws.KitName, ws.VariantName,
		kit+1, b.catalog.KitCount(),
		variant+1, b.catalog.VariantCount(kit))
	return ws, nil
}

// CycleKit steps to the next or previous kit with wraparound and resets the
// variant to the kit's first. A single-kit catalog wraps to itself.
func (b *SampleBank) CycleKit(forward bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.catalog.KitCount()
	if count == 0 {
		return
	}
	kit := b.kitIndex
	if forward {
		kit = (kit + 1) % count
	} else {
		kit = (kit + count - 1) % count
	}
	if _, err := b.activateLocked(kit, 0); err != nil {
		log.Printf("cycle kit failed: %v", err)
	}
}

// CycleVariant steps to the next or previous variant of the current kit
// with wraparound.
func (b *SampleBank) CycleVariant(forward bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.catalog.VariantCount(b.kitIndex)
	if count == 0 {
		return
	}
	variant := b.variantIndex
	if forward {
		variant = (variant + 1) % count
	} else {
		variant = (variant + count - 1) % count
	}
	if _, err := b.activateLocked(b.kitIndex, variant); err != nil {
		log.Printf("cycle variant failed: %v", err)
	}
}

// Position reports the current (kit, variant) catalog indices.
func (b *SampleBank) Position() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.kitIndex, b.variantIndex
}

// Reload re-scans the sample root. On success the same (kit, variant) is
// re-activated by name when it still exists, otherwise the first kit's
// first variant. On failure the previous catalog and active set stay in
// force and the error is returned for reporting; the caller keeps running.
func (b *SampleBank) Reload() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	catalog, err := LoadCatalog(b.root, b.sampleNames)
	if err != nil {
		return errors.Wrap(err, "reload")
	}

	prev := b.active.Load()
	kit, variant, found := catalog.FindPosition(prev.KitName, prev.VariantName)
	if !found {
		kit, variant = 0, 0
	}

	b.catalog = catalog
	if _, err := b.activateLocked(kit, variant); err != nil {
		// Unreachable: FindPosition returns in-range indices.
		return err
	}
	log.Printf("reload complete: %d kits", catalog.KitCount())
	return nil
}
