package enclosure

import (
	"math"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/chamber"
	"github.com/cwbudde/algo-horn/acoustic/driver"
	"github.com/cwbudde/algo-horn/acoustic/radiation"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

// InnerEndCorrection is the end correction, in vent radii, of the vent end
// inside the box. The outer end is covered by the vent's radiation
// impedance.
const InnerEndCorrection = 0.85

// Vent is a circular-equivalent port tube.
type Vent struct {
	Area   float64 // m^2
	Length float64 // m, physical length without end corrections
}

// Validate rejects a vent without area or with a negative length.
func (v Vent) Validate() error {
	if !(v.Area > 0) || math.IsInf(v.Area, 0) {
		return &acoustic.ConfigurationError{Component: "vent", Field: "area", Value: v.Area, Reason: "must be positive and finite"}
	}

	if v.Length < 0 || math.IsNaN(v.Length) || math.IsInf(v.Length, 0) {
		return &acoustic.ConfigurationError{Component: "vent", Field: "length", Value: v.Length, Reason: "must be non-negative and finite"}
	}

	return nil
}

// Radius returns the radius of the circle with the vent area.
func (v Vent) Radius() float64 { return math.Sqrt(v.Area / math.Pi) }

// Mass returns the acoustic mass of the air plug including the inner end
// correction, in kg/m^4.
func (v Vent) Mass(m acoustic.Medium) float64 {
	return m.Density * (v.Length + InnerEndCorrection*v.Radius()) / v.Area
}

// Impedance returns the series impedance of the vent: its air plug plus the
// radiation impedance of the open end.
func (v Vent) Impedance(m acoustic.Medium, freq float64) (complex128, error) {
	zRad, err := radiation.Impedance(m, freq, v.Area)
	if err != nil {
		return 0, err
	}

	return complex(0, acoustic.AngularFrequency(freq)*v.Mass(m)) + zRad, nil
}

// Ported is a vented box. The vent output is summed with the diaphragm
// output as complex volume velocities at a shared reference plane, so the
// cancellation below tuning is preserved.
type Ported struct {
	*engine
	box  chamber.Chamber
	vent Vent
}

// NewPorted returns a vented-box system.
func NewPorted(drv *driver.Driver, box chamber.Chamber, vent Vent, opts ...Option) (*Ported, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &Ported{box: box, vent: vent}
	if s.engine, err = newEngine(calibration.Ported, drv, cfg, s); err != nil {
		return nil, err
	}

	if box.IsOpen() {
		return nil, &acoustic.ConfigurationError{Component: "ported box", Field: "volume", Value: 0, Reason: "must be positive"}
	}

	if err := checkVolume("ported box", box, drv.Envelope()); err != nil {
		return nil, err
	}

	if err := vent.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Box returns the enclosure chamber.
func (s *Ported) Box() chamber.Chamber { return s.box }

// Vent returns the port.
func (s *Ported) Vent() Vent { return s.vent }

// TuningFrequency returns the Helmholtz resonance of box and vent, using
// the low-frequency radiation mass of the outer vent end.
func (s *Ported) TuningFrequency() float64 {
	outer := radiation.LowFrequencyMass(s.medium, s.vent.Area) / (s.vent.Area * s.vent.Area)
	mass := s.vent.Mass(s.medium) + outer

	return 1 / (2 * math.Pi * math.Sqrt(mass*s.box.Compliance(s.medium)))
}

func (s *Ported) faces(freq float64) (faces, error) {
	zRad, err := radiation.Impedance(s.medium, freq, s.drv.Parameters().Sd)
	if err != nil {
		return faces{}, err
	}

	zVent, err := s.vent.Impedance(s.medium, freq)
	if err != nil {
		return faces{}, err
	}

	zBox := s.box.Impedance(s.medium, freq)

	radiate := func(ud complex128) (float64, complex128) {
		// The rear face drives -ud into the box, which splits between the
		// box compliance and the vent.
		uv := -ud * zBox / (zBox + zVent)
		total := ud + uv

		return acoustic.Power(zRad*total, total), total
	}

	return faces{front: zRad, rear: acoustic.Parallel(zBox, zVent), radiate: radiate}, nil
}

// VentVelocity returns the volume velocity leaving the vent for a diaphragm
// volume velocity ud.
func (s *Ported) VentVelocity(freq float64, ud complex128) (complex128, error) {
	zVent, err := s.vent.Impedance(s.medium, freq)
	if err != nil {
		return 0, err
	}

	zBox := s.box.Impedance(s.medium, freq)

	return -ud * zBox / (zBox + zVent), nil
}

// Describe returns the system geometry.
func (s *Ported) Describe() Description {
	d := describe(s.engine)
	d.Chambers = []ChamberInfo{chamberInfo(RearChamber, s.box)}
	v := s.vent
	d.Vent = &v

	return d
}
