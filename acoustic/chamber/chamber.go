// Package chamber models enclosed air volumes as acoustic compliances.
//
// A chamber of volume V has compliance C = V/(rho*c^2) and impedance
// 1/(j*omega*C). When its cross-section is known the chamber is treated as
// a closed duct of length L = V/S, whose impedance -j*Z0*cot(kL) reduces to
// the lumped form for kL -> 0 and adds the first standing-wave resonances
// when the chamber is long compared with the wavelength.
//
// A zero volume is an open circuit: the impedance is cmplx.Inf() and the
// admittance is zero, so a missing chamber drops out of any network it is
// placed in.
package chamber

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-horn/acoustic"
)

// Impedance returns the lumped acoustic impedance 1/(j*omega*V/(rho*c^2))
// of a volume in m^3. It is cmplx.Inf() for a zero volume or a
// non-positive frequency.
func Impedance(m acoustic.Medium, freq, volume float64) complex128 {
	if !(volume > 0) || !(freq > 0) {
		return cmplx.Inf()
	}

	return 1 / complex(0, acoustic.AngularFrequency(freq)*m.Compliance(volume))
}

// Chamber is an enclosed volume with an optional cross-section area.
type Chamber struct {
	Volume float64 // m^3
	Area   float64 // m^2, 0 for a lumped compliance
}

// Validate rejects negative or non-finite dimensions.
func (c Chamber) Validate() error {
	if c.Volume < 0 || math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) {
		return &acoustic.ConfigurationError{Component: "chamber", Field: "volume", Value: c.Volume, Reason: "must be non-negative and finite"}
	}

	if c.Area < 0 || math.IsNaN(c.Area) || math.IsInf(c.Area, 0) {
		return &acoustic.ConfigurationError{Component: "chamber", Field: "area", Value: c.Area, Reason: "must be non-negative and finite"}
	}

	return nil
}

// IsOpen reports whether the chamber has no volume.
func (c Chamber) IsOpen() bool { return c.Volume == 0 }

// Length returns the equivalent duct length V/S, or 0 without an area.
func (c Chamber) Length() float64 {
	if c.Area == 0 {
		return 0
	}

	return c.Volume / c.Area
}

// Compliance returns the acoustic compliance in m^5/N.
func (c Chamber) Compliance(m acoustic.Medium) float64 {
	return m.Compliance(c.Volume)
}

// Admittance returns the acoustic admittance of the chamber:
// j*tan(kL)/Z0 with an area, j*omega*C without.
func (c Chamber) Admittance(m acoustic.Medium, freq float64) complex128 {
	if c.IsOpen() || !(freq > 0) {
		return 0
	}

	if c.Area == 0 {
		return complex(0, acoustic.AngularFrequency(freq)*c.Compliance(m))
	}

	kl := m.Wavenumber(freq) * c.Length()

	return complex(0, math.Tan(kl)/m.DuctImpedance(c.Area))
}

// Impedance returns 1/Admittance, or cmplx.Inf() where the admittance
// vanishes.
func (c Chamber) Impedance(m acoustic.Medium, freq float64) complex128 {
	y := c.Admittance(m, freq)
	if y == 0 {
		return cmplx.Inf()
	}

	return 1 / y
}

// Shunt returns the chamber as a two-port connected across the line.
func (c Chamber) Shunt(m acoustic.Medium, freq float64) acoustic.Matrix {
	return acoustic.Shunt(c.Admittance(m, freq))
}
