package horn

import (
	"math"

	"github.com/cwbudde/algo-horn/acoustic"
)

// UniformSegment is a straight duct of constant cross-section.
type UniformSegment struct {
	base
}

// NewUniform returns a duct of the given area and length.
func NewUniform(area, length float64) (*UniformSegment, error) {
	if err := validateGeometry(Uniform, area, area, length); err != nil {
		return nil, err
	}

	return &UniformSegment{base{throat: area, mouth: area, length: length}}, nil
}

func (s *UniformSegment) Profile() Profile     { return Uniform }
func (s *UniformSegment) FlareRate() float64   { return 0 }
func (s *UniformSegment) Shape() float64       { return 0 }
func (s *UniformSegment) Area(float64) float64 { return s.throat }
func (s *UniformSegment) Volume() float64      { return s.throat * s.length }
func (s *UniformSegment) shape() websterShape  { return websterShape{wL: 1} }

// TransferMatrix returns the plane-wave duct matrix
// [[cos kL, j Z0 sin kL], [j sin kL / Z0, cos kL]].
func (s *UniformSegment) TransferMatrix(m acoustic.Medium, freq float64) (acoustic.Matrix, error) {
	return webster(m, freq, s.base, s.shape())
}

// ExponentialSegment flares as S(x) = S1*exp(m*x).
type ExponentialSegment struct {
	base
	flare float64 // m, 1/m
}

// NewExponential returns an exponential segment joining the given areas.
// The flare rate follows from the geometry: m = ln(S2/S1)/L. An exponential
// never reaches zero area, so a zero throat or mouth is only accepted when
// both are zero.
func NewExponential(throat, mouth, length float64) (*ExponentialSegment, error) {
	if err := validateGeometry(Exponential, throat, mouth, length); err != nil {
		return nil, err
	}

	if (throat == 0) != (mouth == 0) {
		field, value := "throat area", throat
		if mouth == 0 {
			field, value = "mouth area", mouth
		}

		return nil, &acoustic.ConfigurationError{
			Component: "exponential segment", Field: field, Value: value,
			Reason: "must be positive when the other end is open",
		}
	}

	s := &ExponentialSegment{base: base{throat: throat, mouth: mouth, length: length}}
	if throat > 0 {
		s.flare = math.Log(mouth/throat) / length
	}

	return s, nil
}

func (s *ExponentialSegment) Profile() Profile   { return Exponential }
func (s *ExponentialSegment) FlareRate() float64 { return s.flare }
func (s *ExponentialSegment) Shape() float64     { return 0 }

func (s *ExponentialSegment) Area(x float64) float64 {
	return s.throat * math.Exp(s.flare*x)
}

func (s *ExponentialSegment) Volume() float64 {
	if s.flare == 0 {
		return s.throat * s.length
	}

	return (s.mouth - s.throat) / s.flare
}

func (s *ExponentialSegment) shape() websterShape {
	a := s.flare / 2
	wL := math.Exp(a * s.length)

	return websterShape{offset: a * a, w0p: a, wL: wL, wLp: a * wL}
}

// TransferMatrix returns the exact exponential-horn matrix. Below the
// cutoff c*m/(4*pi) the propagation constant is imaginary.
func (s *ExponentialSegment) TransferMatrix(m acoustic.Medium, freq float64) (acoustic.Matrix, error) {
	if err := checkFlare(Exponential, s.flare*s.length); err != nil {
		return acoustic.Matrix{}, withFrequency(err, freq)
	}

	return webster(m, freq, s.base, s.shape())
}

// ConicalSegment has a radius growing linearly with x, so the wavefronts are
// spherical caps centred on the virtual apex.
type ConicalSegment struct {
	base
	radius float64 // throat radius, m
	taper  float64 // dr/dx
}

// NewConical returns a conical segment joining the given areas. A mouth
// smaller than the throat describes a contracting cone, and a zero throat
// puts the apex at the throat plane.
func NewConical(throat, mouth, length float64) (*ConicalSegment, error) {
	if err := validateGeometry(Conical, throat, mouth, length); err != nil {
		return nil, err
	}

	r1 := math.Sqrt(throat / math.Pi)
	r2 := math.Sqrt(mouth / math.Pi)

	return &ConicalSegment{
		base:   base{throat: throat, mouth: mouth, length: length},
		radius: r1,
		taper:  (r2 - r1) / length,
	}, nil
}

func (s *ConicalSegment) Profile() Profile   { return Conical }
func (s *ConicalSegment) FlareRate() float64 { return 0 }
func (s *ConicalSegment) Shape() float64     { return 0 }

func (s *ConicalSegment) Area(x float64) float64 {
	r := s.radius + s.taper*x
	return math.Pi * r * r
}

func (s *ConicalSegment) Volume() float64 {
	return s.length * (s.throat + math.Sqrt(s.throat*s.mouth) + s.mouth) / 3
}

// ApexDistance returns the distance from the virtual apex to the throat,
// +Inf for a cylinder and negative for a contracting cone.
func (s *ConicalSegment) ApexDistance() float64 {
	if s.taper == 0 {
		return math.Inf(1)
	}

	return s.radius / s.taper
}

func (s *ConicalSegment) shape() websterShape {
	if s.radius == 0 {
		return websterShape{wL: 1}
	}

	slope := s.taper / s.radius

	return websterShape{w0p: slope, wL: 1 + slope*s.length, wLp: slope}
}

// TransferMatrix returns the spherical-wave matrix of the cone.
func (s *ConicalSegment) TransferMatrix(m acoustic.Medium, freq float64) (acoustic.Matrix, error) {
	return webster(m, freq, s.base, s.shape())
}

// HyperbolicSegment is a Salmon hypex horn:
//
//	S(x) = S1 * (cosh(a*x) + T*sinh(a*x))^2
//
// T = 1 is exponential, T = 0 catenoidal, and T -> infinity approaches the
// cone. The flare constant a follows from the geometry for a given T.
type HyperbolicSegment struct {
	base
	t float64
	a float64
}

// NewHyperbolic returns a hypex segment with shape parameter t >= 0.
// The mouth must not be smaller than the throat.
func NewHyperbolic(throat, mouth, length, t float64) (*HyperbolicSegment, error) {
	if err := validateGeometry(Hyperbolic, throat, mouth, length); err != nil {
		return nil, err
	}

	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return nil, &acoustic.ConfigurationError{Component: "hyperbolic segment", Field: "T", Value: t, Reason: "must be non-negative and finite"}
	}

	if !(throat > 0) || mouth < throat {
		return nil, &acoustic.ConfigurationError{Component: "hyperbolic segment", Field: "mouth area", Value: mouth, Reason: "must be at least the (positive) throat area"}
	}

	s := &HyperbolicSegment{base: base{throat: throat, mouth: mouth, length: length}, t: t}
	s.a = solveHypex(math.Sqrt(mouth/throat), t) / length

	return s, nil
}

// solveHypex finds y >= 0 with cosh(y) + t*sinh(y) = ratio by bisection.
// The left side is increasing in y for t >= 0, and y = acosh(ratio) is an
// upper bound.
func solveHypex(ratio, t float64) float64 {
	if ratio <= 1 {
		return 0
	}

	if t == 1 {
		return math.Log(ratio)
	}

	lo, hi := 0.0, math.Acosh(ratio)
	for range 200 {
		mid := 0.5 * (lo + hi)
		if math.Cosh(mid)+t*math.Sinh(mid) < ratio {
			lo = mid
		} else {
			hi = mid
		}

		if hi-lo <= 1e-16*hi {
			break
		}
	}

	return 0.5 * (lo + hi)
}

func (s *HyperbolicSegment) Profile() Profile   { return Hyperbolic }
func (s *HyperbolicSegment) FlareRate() float64 { return 2 * s.a }
func (s *HyperbolicSegment) Shape() float64     { return s.t }

func (s *HyperbolicSegment) Area(x float64) float64 {
	w := math.Cosh(s.a*x) + s.t*math.Sinh(s.a*x)
	return s.throat * w * w
}

// Volume integrates S1*(cosh(ax) + T*sinh(ax))^2 over the length.
func (s *HyperbolicSegment) Volume() float64 {
	if s.a == 0 {
		return s.throat * s.length
	}

	y := 2 * s.a * s.length
	t2 := s.t * s.t
	v := (1-t2)*s.length/2 + (1+t2)*math.Sinh(y)/(4*s.a) + s.t*(math.Cosh(y)-1)/(2*s.a)

	return s.throat * v
}

func (s *HyperbolicSegment) shape() websterShape {
	y := s.a * s.length
	sh, ch := math.Sinh(y), math.Cosh(y)

	return websterShape{
		offset: s.a * s.a,
		w0p:    s.a * s.t,
		wL:     ch + s.t*sh,
		wLp:    s.a * (sh + s.t*ch),
	}
}

// TransferMatrix returns the exact hypex matrix; its cutoff is a*c/(2*pi).
func (s *HyperbolicSegment) TransferMatrix(m acoustic.Medium, freq float64) (acoustic.Matrix, error) {
	if err := checkFlare(Hyperbolic, 2*s.a*s.length); err != nil {
		return acoustic.Matrix{}, withFrequency(err, freq)
	}

	return webster(m, freq, s.base, s.shape())
}

func withFrequency(err error, freq float64) error {
	if nd, ok := err.(*acoustic.NumericDomainError); ok {
		cp := *nd
		cp.Frequency = freq
		return &cp
	}

	return err
}
