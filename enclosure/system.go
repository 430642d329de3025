package enclosure

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/chamber"
	"github.com/cwbudde/algo-horn/acoustic/driver"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

// Default drive conditions.
const (
	DefaultVoltage  = 2.83 // V rms, 1 W into 8 ohm
	DefaultDistance = 1.0  // m

	// HalfSpace is the directivity factor of a source radiating into 2*pi sr.
	HalfSpace = 2.0
)

// System is an immutable enclosure definition.
type System interface {
	Family() calibration.Family
	Driver() *driver.Driver
	Medium() acoustic.Medium
	At(freq float64, c Conditions) (Point, error)
	Describe() Description
}

// Conditions are the drive and observation settings of an evaluation.
type Conditions struct {
	Voltage  float64 // V rms at the terminals
	Distance float64 // m, observation distance on axis

	// Calibration is applied to the SPL when non-nil.
	Calibration *calibration.Table
}

// DefaultConditions returns 2.83 V at 1 m with the default calibration table.
func DefaultConditions() Conditions {
	return Conditions{Voltage: DefaultVoltage, Distance: DefaultDistance, Calibration: calibration.DefaultTable()}
}

// Validate rejects non-positive voltage or distance.
func (c Conditions) Validate() error {
	if !(c.Voltage > 0) || math.IsInf(c.Voltage, 0) {
		return &acoustic.ConfigurationError{Component: "conditions", Field: "voltage", Value: c.Voltage, Reason: "must be positive and finite"}
	}

	if !(c.Distance > 0) || math.IsInf(c.Distance, 0) {
		return &acoustic.ConfigurationError{Component: "conditions", Field: "distance", Value: c.Distance, Reason: "must be positive and finite"}
	}

	return nil
}

// Point is the complete small-signal solution at one frequency.
type Point struct {
	Frequency float64

	Impedance complex128 // electrical, ohm
	Current   complex128 // A rms

	Velocity       complex128 // diaphragm, m/s rms
	Displacement   complex128 // diaphragm, m rms
	PeakExcursion  float64    // m
	VolumeVelocity complex128 // net radiating volume velocity, m^3/s rms

	AcousticPower   float64 // W
	ElectricalPower float64 // W
	Efficiency      float64 // AcousticPower / ElectricalPower

	Pressure        float64 // far-field pressure, Pa rms
	UncalibratedSPL float64 // dB re 20 uPa
	SPL             float64 // dB re 20 uPa, calibrated when a table is given
}

// faces is the acoustic network seen by the diaphragm at one frequency.
type faces struct {
	front, rear complex128 // acoustic impedance on each face, Pa*s/m^3

	// radiate returns the radiated power and the net radiating volume
	// velocity for a diaphragm volume velocity ud.
	radiate func(ud complex128) (float64, complex128)
}

// network is implemented by every system.
type network interface {
	faces(freq float64) (faces, error)
}

// Option configures a system at construction.
type Option func(*config)

type config struct {
	medium acoustic.Medium
}

// WithMedium replaces the default air medium.
func WithMedium(m acoustic.Medium) Option {
	return func(cfg *config) {
		cfg.medium = m
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := config{medium: acoustic.DefaultMedium()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.medium.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// engine evaluates a network for one driver. Every system embeds one.
type engine struct {
	family calibration.Family
	drv    *driver.Driver
	medium acoustic.Medium
	net    network
}

func newEngine(family calibration.Family, drv *driver.Driver, cfg config, net network) (*engine, error) {
	if drv == nil {
		return nil, &acoustic.ConfigurationError{Component: family.String(), Reason: "driver is nil"}
	}

	return &engine{family: family, drv: drv, medium: cfg.medium, net: net}, nil
}

// Family returns the enclosure family.
func (e *engine) Family() calibration.Family { return e.family }

// Driver returns the driver.
func (e *engine) Driver() *driver.Driver { return e.drv }

// Medium returns the medium the system radiates into.
func (e *engine) Medium() acoustic.Medium { return e.medium }

// At solves the system at freq under the given conditions.
func (e *engine) At(freq float64, c Conditions) (Point, error) {
	if err := c.Validate(); err != nil {
		return Point{}, err
	}

	if !(freq > 0) || math.IsInf(freq, 0) {
		return Point{}, &acoustic.NumericDomainError{
			Frequency: freq, Segment: -1, Quantity: "frequency", Value: freq,
			Reason: "must be positive and finite",
		}
	}

	fc, err := e.net.faces(freq)
	if err != nil {
		return Point{}, err
	}

	sd := e.drv.Parameters().Sd
	op := e.drv.Drive(freq, c.Voltage, complex(sd*sd, 0)*(fc.front+fc.rear))

	power, u := fc.radiate(op.VolumeVelocity)
	pe := op.ElectricalPower(c.Voltage)

	pt := Point{
		Frequency:       freq,
		Impedance:       op.Impedance,
		Current:         op.Current,
		Velocity:        op.Velocity,
		Displacement:    op.Displacement,
		PeakExcursion:   op.PeakExcursion(),
		VolumeVelocity:  u,
		AcousticPower:   power,
		ElectricalPower: pe,
		Efficiency:      power / pe,
		Pressure:        e.medium.FarFieldPressure(power, HalfSpace, c.Distance),
	}

	pt.UncalibratedSPL = acoustic.PressureToSPL(pt.Pressure)
	pt.SPL = c.Calibration.Apply(e.family, pt.UncalibratedSPL, c.Calibration != nil)

	if err := pt.check(); err != nil {
		return Point{}, err
	}

	return pt, nil
}

func (p Point) check() error {
	bad := func(q string, v float64) error {
		return &acoustic.NumericDomainError{
			Frequency: p.Frequency, Segment: -1, Quantity: q, Value: v,
			Reason: "evaluation produced a non-finite value",
		}
	}

	if cmplx.IsNaN(p.Impedance) || cmplx.IsInf(p.Impedance) {
		return bad("electrical impedance", cmplx.Abs(p.Impedance))
	}

	for _, q := range []struct {
		name string
		v    float64
	}{
		{"acoustic power", p.AcousticPower},
		{"electrical power", p.ElectricalPower},
		{"efficiency", p.Efficiency},
		{"excursion", p.PeakExcursion},
	} {
		if math.IsNaN(q.v) || math.IsInf(q.v, 0) {
			return bad(q.name, q.v)
		}
	}

	// SPL is -Inf for exactly zero output, which is a valid result.
	if math.IsNaN(p.SPL) {
		return bad("SPL", p.SPL)
	}

	return nil
}

// ElectricalImpedanceAt returns the terminal impedance at freq.
func (e *engine) ElectricalImpedanceAt(freq float64) (complex128, error) {
	p, err := e.At(freq, Conditions{Voltage: 1, Distance: DefaultDistance})
	if err != nil {
		return 0, err
	}

	return p.Impedance, nil
}

// SPLAt returns the uncalibrated on-axis SPL for an RMS drive voltage at
// the given distance.
func (e *engine) SPLAt(freq, volts, distance float64) (float64, error) {
	p, err := e.At(freq, Conditions{Voltage: volts, Distance: distance})
	if err != nil {
		return 0, err
	}

	return p.UncalibratedSPL, nil
}

// EfficiencyAt returns the ratio of radiated acoustic power to real
// electrical input power. The network is linear, so it does not depend on
// the drive level.
func (e *engine) EfficiencyAt(freq float64) (float64, error) {
	p, err := e.At(freq, Conditions{Voltage: 1, Distance: DefaultDistance})
	if err != nil {
		return 0, err
	}

	return p.Efficiency, nil
}

// checkVolume validates a chamber and rejects one that is present but
// smaller than floor.
func checkVolume(component string, c chamber.Chamber, floor float64) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", component, err)
	}

	if !c.IsOpen() && c.Volume < floor {
		return &acoustic.ConfigurationError{
			Component: component, Field: "volume", Value: c.Volume,
			Reason: fmt.Sprintf("is smaller than the driver envelope %.4g m^3", floor),
		}
	}

	return nil
}
