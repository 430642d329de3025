// Package calibration holds the per-family SPL offsets that reconcile the
// first-principles engine with an external reference simulator.
//
// Every family has exactly one additive dB offset, applied at exactly one
// point (after the far-field pressure has been converted to dB SPL). The
// uncalibrated value is always kept next to the calibrated one so the
// physics stays inspectable.
package calibration

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Family identifies an enclosure type.
type Family int

const (
	InfiniteBaffle Family = iota
	Sealed
	Ported
	FrontLoadedHorn
)

// Families lists every family in declaration order.
var Families = []Family{InfiniteBaffle, Sealed, Ported, FrontLoadedHorn}

func (f Family) String() string {
	switch f {
	case InfiniteBaffle:
		return "infinite-baffle"
	case Sealed:
		return "sealed"
	case Ported:
		return "ported"
	case FrontLoadedHorn:
		return "front-loaded-horn"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// ParseFamily maps a family name back to its Family.
func ParseFamily(name string) (Family, error) {
	for _, f := range Families {
		if f.String() == name {
			return f, nil
		}
	}

	return 0, fmt.Errorf("calibration: unknown enclosure family %q", name)
}

// Entry is one calibration constant together with its provenance.
type Entry struct {
	OffsetDB float64
	Method   string // how the offset was obtained
	Source   string // sweep, literature or measurement it was derived from
}

// Table maps each family to its calibration entry.
type Table struct {
	Name    string
	entries map[Family]Entry
}

// DefaultMethod describes the provenance of the default entries.
const DefaultMethod = "first-principles; re-derive with DeriveOffset from a controlled validation sweep"

// DefaultTable returns the engine's calibration table. All offsets are
// zero: none of the historical per-family constants has been re-derived
// from a common validation sweep yet, so none is carried over.
func DefaultTable() *Table {
	t := &Table{Name: "default", entries: make(map[Family]Entry, len(Families))}
	for _, f := range Families {
		t.entries[f] = Entry{Method: DefaultMethod, Source: "none"}
	}

	return t
}

// With returns a copy of t with the entry for f replaced.
func (t *Table) With(f Family, e Entry) *Table {
	out := &Table{Name: t.Name, entries: make(map[Family]Entry, len(t.entries)+1)}
	for k, v := range t.entries {
		out.entries[k] = v
	}

	out.entries[f] = e

	return out
}

// Entry returns the entry for f.
func (t *Table) Entry(f Family) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	e, ok := t.entries[f]

	return e, ok
}

// Offset returns the dB offset for f, 0 when the table has no entry.
func (t *Table) Offset(f Family) float64 {
	e, _ := t.Entry(f)
	return e.OffsetDB
}

// Apply returns splDB with the family offset added when enabled is true,
// and splDB unchanged otherwise. A nil table never changes the level.
func (t *Table) Apply(f Family, splDB float64, enabled bool) float64 {
	if !enabled || t == nil {
		return splDB
	}

	return splDB + t.Offset(f)
}

// Band is a closed frequency interval in Hz.
type Band struct {
	Low, High float64
}

// Contains reports whether f lies inside the band.
func (b Band) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

// ErrNoOverlap is returned when no usable point lies inside the band.
var ErrNoOverlap = errors.New("calibration: no finite points inside the band")

// DeriveOffset returns the mean of reference - engine over the points of
// freqs that fall inside band. engine must be uncalibrated SPL in dB and
// reference the validation sweep on the same grid. Non-finite points are
// skipped.
func DeriveOffset(freqs, engine, reference []float64, band Band) (float64, error) {
	if len(freqs) != len(engine) || len(freqs) != len(reference) {
		return 0, fmt.Errorf("calibration: length mismatch: %d frequencies, %d engine, %d reference",
			len(freqs), len(engine), len(reference))
	}

	var sum float64
	var n int

	for i, f := range freqs {
		d := reference[i] - engine[i]
		if !band.Contains(f) || math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}

		sum += d
		n++
	}

	if n == 0 {
		return 0, ErrNoOverlap
	}

	return sum / float64(n), nil
}

// Covered returns the families that have an entry, in declaration order.
func (t *Table) Covered() []Family {
	out := make([]Family, 0, len(t.entries))
	for f := range t.entries {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
