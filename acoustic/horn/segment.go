package horn

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-horn/acoustic"
)

// MaxFlareLength bounds |flare rate * length|. Below cutoff the kernel
// subtracts two terms of size exp(m*L) whose difference is of order one, so
// the matrix loses about m*L/ln(10) significant digits. At this limit the
// determinant still holds to 1e-7; steeper segments are rejected instead
// of clamped.
const MaxFlareLength = 20.0

// Profile identifies a flare law.
type Profile int

const (
	Uniform Profile = iota
	Exponential
	Conical
	Hyperbolic
)

// String returns the lower-case profile name.
func (p Profile) String() string {
	switch p {
	case Uniform:
		return "uniform"
	case Exponential:
		return "exponential"
	case Conical:
		return "conical"
	case Hyperbolic:
		return "hyperbolic"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// ParseProfile maps a profile name back to its Profile.
func ParseProfile(name string) (Profile, error) {
	for _, p := range []Profile{Uniform, Exponential, Conical, Hyperbolic} {
		if p.String() == name {
			return p, nil
		}
	}

	return 0, fmt.Errorf("horn: unknown profile %q", name)
}

// Segment is one horn section between a throat plane and a mouth plane.
// The interface is sealed: the only implementations are the ones returned
// by [NewUniform], [NewExponential], [NewConical] and [NewHyperbolic].
type Segment interface {
	Profile() Profile
	ThroatArea() float64 // m^2
	MouthArea() float64  // m^2
	Length() float64     // m

	// FlareRate returns m = 2*sqrt(w''/w), the m of S(x) ~ exp(m*x) for
	// the exponential profile. It is 0 for profiles without a flare cutoff.
	FlareRate() float64

	// Shape returns the profile-specific shape parameter (the hyperbolic
	// T), or 0 for profiles that have none.
	Shape() float64

	// Area returns the cross-section at axial position x from the throat.
	Area(x float64) float64

	// Volume returns the air volume enclosed by the segment.
	Volume() float64

	// TransferMatrix relates (p, U) at the throat to (p, U) at the mouth.
	TransferMatrix(m acoustic.Medium, freq float64) (acoustic.Matrix, error)

	shape() websterShape
}

// websterShape holds the quantities the exact kernel needs.
type websterShape struct {
	offset float64 // w''/w
	w0p    float64 // w'(0)
	wL     float64 // w(L)
	wLp    float64 // w'(L)
}

// Cutoff returns the closed-form flare cutoff c*m/(4*pi) of s.
func Cutoff(m acoustic.Medium, s Segment) float64 {
	return m.SpeedOfSound * s.FlareRate() / (4 * math.Pi)
}

// base carries the geometry every profile has.
type base struct {
	throat, mouth, length float64
}

func (b base) ThroatArea() float64 { return b.throat }
func (b base) MouthArea() float64  { return b.mouth }
func (b base) Length() float64     { return b.length }

func validateGeometry(profile Profile, throat, mouth, length float64) error {
	component := profile.String() + " segment"

	if !(length > 0) || math.IsInf(length, 0) {
		return &acoustic.ConfigurationError{Component: component, Field: "length", Value: length, Reason: "must be positive and finite"}
	}

	if throat < 0 || math.IsNaN(throat) || math.IsInf(throat, 0) {
		return &acoustic.ConfigurationError{Component: component, Field: "throat area", Value: throat, Reason: "must be non-negative and finite"}
	}

	if mouth < 0 || math.IsNaN(mouth) || math.IsInf(mouth, 0) {
		return &acoustic.ConfigurationError{Component: component, Field: "mouth area", Value: mouth, Reason: "must be non-negative and finite"}
	}

	return nil
}

// webster evaluates the exact Salmon-family matrix for a segment.
func webster(m acoustic.Medium, freq float64, b base, s websterShape) (acoustic.Matrix, error) {
	if !(freq > 0) || math.IsInf(freq, 0) {
		return acoustic.Matrix{}, &acoustic.NumericDomainError{
			Frequency: freq, Segment: -1, Quantity: "frequency", Value: freq,
			Reason: "transfer matrix requires a positive finite frequency",
		}
	}

	if !(b.throat > 0) {
		return acoustic.Matrix{}, &acoustic.NumericDomainError{
			Frequency: freq, Segment: -1, Quantity: "characteristic impedance", Value: math.Inf(1),
			Reason: "throat area must be positive",
		}
	}

	z1 := complex(m.DuctImpedance(b.throat), 0)
	k := m.Wavenumber(freq)
	g2 := complex(k*k-s.offset, 0)
	g := cmplx.Sqrt(g2)
	gl := g * complex(b.length, 0)

	cos := cmplx.Cos(gl)
	sg := sinOver(g, gl, b.length) // sin(gL)/g
	kc := complex(k, 0)
	w0p := complex(s.w0p, 0)
	wL := complex(s.wL, 0)
	wLp := complex(s.wLp, 0)

	mat := acoustic.Matrix{
		A: wL*cos - wLp*sg,
		B: 1i * kc * z1 * sg / wL,
		C: 1i / (kc * z1) * ((cos+w0p*sg)*wLp - wL*(w0p*cos-g2*sg)),
		D: (cos + w0p*sg) / wL,
	}

	if !mat.IsFinite() {
		return acoustic.Matrix{}, &acoustic.NumericDomainError{
			Frequency: freq, Segment: -1, Quantity: "transfer matrix", Value: math.NaN(),
			Reason: "non-finite element",
		}
	}

	return mat, nil
}

// sinOver returns sin(g*L)/g, using its Taylor series near g = 0 so the
// cutoff frequency itself is regular.
func sinOver(g, gl complex128, length float64) complex128 {
	if cmplx.Abs(gl) < 1e-4 {
		gl2 := gl * gl
		return complex(length, 0) * (1 - gl2/6 + gl2*gl2/120)
	}

	return cmplx.Sin(gl) / g
}

func checkFlare(profile Profile, flareLength float64) error {
	if math.Abs(flareLength) > MaxFlareLength {
		return &acoustic.NumericDomainError{
			Segment: -1, Quantity: "flare*length", Value: flareLength,
			Reason: fmt.Sprintf("%s segment exceeds the limit %g", profile, MaxFlareLength),
		}
	}

	return nil
}
