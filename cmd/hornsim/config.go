package main

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/chamber"
	"github.com/cwbudde/algo-horn/acoustic/driver"
	"github.com/cwbudde/algo-horn/acoustic/horn"
	"github.com/cwbudde/algo-horn/enclosure"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

// Definition is a system file. All quantities are SI: m, m^2, m^3, kg.
type Definition struct {
	Family string `toml:"family"`

	Medium        *MediumDef   `toml:"medium"`
	Driver        DriverDef    `toml:"driver"`
	Segments      []SegmentDef `toml:"segment"`
	ThroatChamber ChamberDef   `toml:"throat_chamber"`
	RearChamber   ChamberDef   `toml:"rear_chamber"`
	Vent          *VentDef     `toml:"vent"`
	Sweep         SweepDef     `toml:"sweep"`
	Calibration   *CalDef      `toml:"calibration"`
}

type MediumDef struct {
	Density      float64 `toml:"density"`
	SpeedOfSound float64 `toml:"speed_of_sound"`
}

type DriverDef struct {
	Mms    float64 `toml:"mms"`
	Cms    float64 `toml:"cms"`
	Rms    float64 `toml:"rms"`
	Re     float64 `toml:"re"`
	Le     float64 `toml:"le"`
	Bl     float64 `toml:"bl"`
	Sd     float64 `toml:"sd"`
	Xmax   float64 `toml:"xmax"`
	Volume float64 `toml:"volume"`
}

type SegmentDef struct {
	Profile    string  `toml:"profile"`
	ThroatArea float64 `toml:"throat_area"`
	MouthArea  float64 `toml:"mouth_area"`
	Length     float64 `toml:"length"`
	Shape      float64 `toml:"shape"` // hyperbolic T
}

type ChamberDef struct {
	Volume float64 `toml:"volume"`
	Area   float64 `toml:"area"`
}

type VentDef struct {
	Area   float64 `toml:"area"`
	Length float64 `toml:"length"`
}

type SweepDef struct {
	Start    float64 `toml:"start"`
	Stop     float64 `toml:"stop"`
	Points   int     `toml:"points"`
	Voltage  float64 `toml:"voltage"`
	Distance float64 `toml:"distance"`
	Strict   bool    `toml:"strict"`
}

// CalDef overrides the calibration offset of the file's family.
type CalDef struct {
	OffsetDB float64 `toml:"offset_db"`
	Source   string  `toml:"source"`
}

// Load decodes a definition and rejects unknown keys, which are almost
// always misspelled parameters.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(string(data))
}

// Parse decodes a definition from TOML text.
func Parse(text string) (*Definition, error) {
	var def Definition

	md, err := toml.Decode(text, &def)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("parse: unknown key %q", undec[0].String())
	}

	def.Sweep = def.Sweep.withDefaults()

	return &def, nil
}

func (s SweepDef) withDefaults() SweepDef {
	if s.Start == 0 {
		s.Start = 10
	}

	if s.Stop == 0 {
		s.Stop = 20000
	}

	if s.Points == 0 {
		s.Points = 200
	}

	if s.Voltage == 0 {
		s.Voltage = enclosure.DefaultVoltage
	}

	if s.Distance == 0 {
		s.Distance = enclosure.DefaultDistance
	}

	return s
}

// Build constructs the system the definition describes.
func (d *Definition) Build() (enclosure.System, error) {
	family, err := calibration.ParseFamily(d.Family)
	if err != nil {
		return nil, err
	}

	var opts []enclosure.Option
	if d.Medium != nil {
		opts = append(opts, enclosure.WithMedium(acoustic.Medium{Density: d.Medium.Density, SpeedOfSound: d.Medium.SpeedOfSound}))
	}

	drv, err := driver.New(driver.Parameters(d.Driver))
	if err != nil {
		return nil, err
	}

	rear := chamber.Chamber(d.RearChamber)

	switch family {
	case calibration.InfiniteBaffle:
		return built(enclosure.NewInfiniteBaffle(drv, opts...))
	case calibration.Sealed:
		return built(enclosure.NewSealed(drv, rear, opts...))
	case calibration.Ported:
		if d.Vent == nil {
			return nil, fmt.Errorf("family %s needs a [vent] table", family)
		}

		return built(enclosure.NewPorted(drv, rear, enclosure.Vent(*d.Vent), opts...))
	case calibration.FrontLoadedHorn:
		chain, err := d.chain()
		if err != nil {
			return nil, err
		}

		return built(enclosure.NewFrontLoadedHorn(drv, chain, chamber.Chamber(d.ThroatChamber), rear, opts...))
	default:
		return nil, fmt.Errorf("family %s is not supported", family)
	}
}

func (d *Definition) chain() (*horn.Chain, error) {
	if len(d.Segments) == 0 {
		return nil, fmt.Errorf("family %s needs at least one [[segment]]", calibration.FrontLoadedHorn)
	}

	segs := make([]horn.Segment, 0, len(d.Segments))
	for i, sd := range d.Segments {
		seg, err := sd.build()
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		segs = append(segs, seg)
	}

	return horn.NewChain(segs...)
}

func (s SegmentDef) build() (horn.Segment, error) {
	profile, err := horn.ParseProfile(s.Profile)
	if err != nil {
		return nil, err
	}

	if profile != horn.Hyperbolic && s.Shape != 0 {
		return nil, fmt.Errorf("shape is only valid for hyperbolic segments")
	}

	switch profile {
	case horn.Uniform:
		if s.MouthArea != 0 && s.MouthArea != s.ThroatArea {
			return nil, fmt.Errorf("uniform segment with different throat and mouth areas")
		}

		return checked(horn.NewUniform(s.ThroatArea, s.Length))
	case horn.Exponential:
		return checked(horn.NewExponential(s.ThroatArea, s.MouthArea, s.Length))
	case horn.Conical:
		return checked(horn.NewConical(s.ThroatArea, s.MouthArea, s.Length))
	case horn.Hyperbolic:
		return checked(horn.NewHyperbolic(s.ThroatArea, s.MouthArea, s.Length, s.Shape))
	default:
		return nil, fmt.Errorf("profile %s is not supported", profile)
	}
}

func built[S enclosure.System](sys S, err error) (enclosure.System, error) {
	if err != nil {
		return nil, err
	}

	return sys, nil
}

// checked keeps a typed nil segment out of the interface.
func checked[S horn.Segment](seg S, err error) (horn.Segment, error) {
	if err != nil {
		return nil, err
	}

	return seg, nil
}

// Grid returns the sweep frequencies.
func (s SweepDef) Grid() ([]float64, error) {
	return enclosure.LogFrequencies(s.Start, s.Stop, s.Points)
}

// Table returns the calibration table for family, with the file's
// override applied.
func (d *Definition) Table(family calibration.Family) *calibration.Table {
	t := calibration.DefaultTable()
	if d.Calibration == nil || math.IsNaN(d.Calibration.OffsetDB) {
		return t
	}

	source := d.Calibration.Source
	if source == "" {
		source = "system file"
	}

	return t.With(family, calibration.Entry{OffsetDB: d.Calibration.OffsetDB, Method: "user override", Source: source})
}
