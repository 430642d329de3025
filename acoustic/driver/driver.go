// Package driver models a moving-coil loudspeaker driver as a lumped
// electro-mechanical circuit.
//
// The mechanical branch is
//
//	Zm(f) = Rms + j(omega*Mms - 1/(omega*Cms))
//
// and an external mechanical load Zl (radiation, chambers, horn) is
// reflected into the electrical domain through the force factor:
//
//	Ze(f) = Re + j*omega*Le + Bl^2 / (Zm(f) + Zl(f))
//
// Mms is the moving mass of the diaphragm assembly without air load; the
// air load enters only through Zl or through the resonance solver.
package driver

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/radiation"
)

// Parameters are the small-signal parameters of a driver, in SI units.
type Parameters struct {
	Mms  float64 // moving mass without air load, kg
	Cms  float64 // suspension compliance, m/N
	Rms  float64 // mechanical resistance, N*s/m
	Re   float64 // voice coil DC resistance, ohm
	Le   float64 // voice coil inductance, H
	Bl   float64 // force factor, T*m
	Sd   float64 // effective piston area, m^2
	Xmax float64 // one-way linear excursion, m

	// Volume is the physical volume the driver body occupies inside an
	// enclosure, m^3. Optional; zero means unknown.
	Volume float64
}

// Validate checks that every required parameter is strictly positive and
// finite and that the optional volume is not negative.
func (p Parameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"moving mass", p.Mms},
		{"compliance", p.Cms},
		{"mechanical resistance", p.Rms},
		{"DC resistance", p.Re},
		{"inductance", p.Le},
		{"force factor", p.Bl},
		{"piston area", p.Sd},
		{"max excursion", p.Xmax},
	}

	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return &acoustic.ConfigurationError{Component: "driver", Field: f.name, Value: f.value, Reason: "must be positive and finite"}
		}
	}

	if p.Volume < 0 || math.IsNaN(p.Volume) {
		return &acoustic.ConfigurationError{Component: "driver", Field: "volume", Value: p.Volume, Reason: "must not be negative"}
	}

	return nil
}

// Driver is an immutable, validated driver definition with its derived
// Thiele/Small quantities. It is safe for concurrent use.
type Driver struct {
	p Parameters

	fs     float64
	qms    float64
	qes    float64
	qts    float64
	radius float64

	mu        sync.Mutex
	resonance map[acoustic.Medium]Resonance
}

// New validates p and computes the derived quantities once.
func New(p Parameters) (*Driver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{p: p}
	d.fs = 1 / (2 * math.Pi * math.Sqrt(p.Mms*p.Cms))
	ws := 2 * math.Pi * d.fs
	d.qms = ws * p.Mms / p.Rms
	d.qes = ws * p.Mms * p.Re / (p.Bl * p.Bl)
	d.qts = d.qms * d.qes / (d.qms + d.qes)
	d.radius = math.Sqrt(p.Sd / math.Pi)

	return d, nil
}

// Parameters returns a copy of the definition.
func (d *Driver) Parameters() Parameters { return d.p }

// Fs returns the resonance frequency of the unloaded moving mass.
func (d *Driver) Fs() float64 { return d.fs }

// Qms returns the mechanical Q at Fs.
func (d *Driver) Qms() float64 { return d.qms }

// Qes returns the electrical Q at Fs.
func (d *Driver) Qes() float64 { return d.qes }

// Qts returns the total Q at Fs.
func (d *Driver) Qts() float64 { return d.qts }

// Radius returns the equivalent piston radius.
func (d *Driver) Radius() float64 { return d.radius }

// Vas returns the volume of air with the same compliance as the
// suspension, rho*c^2*Sd^2*Cms.
func (d *Driver) Vas(m acoustic.Medium) float64 {
	rc2 := m.Density * m.SpeedOfSound * m.SpeedOfSound
	return rc2 * d.p.Sd * d.p.Sd * d.p.Cms
}

// Vd returns the peak displacement volume Sd*Xmax.
func (d *Driver) Vd() float64 { return d.p.Sd * d.p.Xmax }

// Envelope returns the smallest enclosed volume the driver can physically
// work into: its body volume, or the swept volume when that is larger.
func (d *Driver) Envelope() float64 {
	return math.Max(d.p.Volume, 2*d.Vd())
}

// MechanicalImpedance returns Zm(f) in N*s/m.
func (d *Driver) MechanicalImpedance(freq float64) complex128 {
	w := acoustic.AngularFrequency(freq)
	return complex(d.p.Rms, w*d.p.Mms-1/(w*d.p.Cms))
}

// ElectricalImpedance returns Ze(f) for a mechanical load zLoad (N*s/m).
// An infinite load (blocked diaphragm) leaves only the voice coil.
func (d *Driver) ElectricalImpedance(freq float64, zLoad complex128) complex128 {
	w := acoustic.AngularFrequency(freq)
	ze := complex(d.p.Re, w*d.p.Le)

	if cmplx.IsInf(zLoad) {
		return ze
	}

	bl2 := complex(d.p.Bl*d.p.Bl, 0)

	return ze + bl2/(d.MechanicalImpedance(freq)+zLoad)
}

// Operating is the small-signal state of the driver at one frequency.
// All phasors derive from the single complex current.
type Operating struct {
	Frequency      float64
	Impedance      complex128 // electrical, ohm
	Current        complex128 // A rms
	Force          complex128 // N rms
	Velocity       complex128 // m/s rms
	VolumeVelocity complex128 // Sd*Velocity, m^3/s rms
	Displacement   complex128 // m rms
}

// PeakExcursion returns the peak diaphragm displacement in metres.
func (o Operating) PeakExcursion() float64 {
	return math.Sqrt2 * cmplx.Abs(o.Displacement)
}

// ElectricalPower returns Re{V * conj(I)} for terminal voltage volts.
func (o Operating) ElectricalPower(volts float64) float64 {
	return acoustic.Power(complex(volts, 0), o.Current)
}

// Drive returns the operating state for an RMS terminal voltage and a
// mechanical load zLoad. The force, velocity and volume velocity all
// follow from one complex current; neither magnitude nor phase is dropped.
func (d *Driver) Drive(freq, volts float64, zLoad complex128) Operating {
	ze := d.ElectricalImpedance(freq, zLoad)
	i := complex(volts, 0) / ze
	force := complex(d.p.Bl, 0) * i

	var v complex128
	if !cmplx.IsInf(zLoad) {
		v = force / (d.MechanicalImpedance(freq) + zLoad)
	}

	w := acoustic.AngularFrequency(freq)

	return Operating{
		Frequency:      freq,
		Impedance:      ze,
		Current:        i,
		Force:          force,
		Velocity:       v,
		VolumeVelocity: complex(d.p.Sd, 0) * v,
		Displacement:   v / complex(0, w),
	}
}

// LoadedResonance returns the resonance frequency with both sides of the
// diaphragm loaded by baffled-piston radiation mass. The result is
// memoized per medium; errors are not cached.
func (d *Driver) LoadedResonance(m acoustic.Medium, opts ...SolverOption) (Resonance, error) {
	cacheable := len(opts) == 0
	if cacheable {
		d.mu.Lock()
		r, ok := d.resonance[m]
		d.mu.Unlock()

		if ok {
			return r, nil
		}
	}

	radMass := func(f float64) (float64, error) {
		return radiation.Mass(m, f, d.p.Sd)
	}

	r, err := SolveResonance(d.p.Mms, d.p.Cms, radMass, opts...)
	if err != nil {
		return r, err
	}

	if cacheable {
		d.mu.Lock()
		if d.resonance == nil {
			d.resonance = make(map[acoustic.Medium]Resonance)
		}
		d.resonance[m] = r
		d.mu.Unlock()
	}

	return r, nil
}
