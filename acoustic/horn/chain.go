package horn

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/radiation"
)

// ContinuityTolerance is the relative area mismatch tolerated between the
// mouth of one segment and the throat of the next.
const ContinuityTolerance = 1e-6

// ErrEmptyChain is returned when a chain is built without segments.
var ErrEmptyChain = errors.New("horn: chain needs at least one segment")

// Chain is a non-empty, area-continuous sequence of segments ordered from
// throat to mouth. The order is fixed by construction: [NewChain] takes the
// throat segment first and [Chain.Extend] only appends at the mouth.
type Chain struct {
	segments []Segment
}

// NewChain returns a chain of the given segments, throat segment first.
func NewChain(throatFirst ...Segment) (*Chain, error) {
	if len(throatFirst) == 0 {
		return nil, ErrEmptyChain
	}

	segments := make([]Segment, 0, len(throatFirst))
	for i, s := range throatFirst {
		if s == nil {
			return nil, &acoustic.ConfigurationError{Component: fmt.Sprintf("segment %d", i), Reason: "is nil"}
		}

		if i > 0 {
			if err := checkContinuity(i, segments[i-1], s); err != nil {
				return nil, err
			}
		}

		segments = append(segments, s)
	}

	return &Chain{segments: segments}, nil
}

// Extend returns a new chain with the given segments appended at the mouth
// end. The receiver is left unchanged.
func (c *Chain) Extend(mouthward ...Segment) (*Chain, error) {
	all := make([]Segment, 0, len(c.segments)+len(mouthward))
	all = append(all, c.segments...)
	all = append(all, mouthward...)

	return NewChain(all...)
}

func checkContinuity(i int, prev, next Segment) error {
	a, b := prev.MouthArea(), next.ThroatArea()
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 || math.Abs(a-b) <= ContinuityTolerance*scale {
		return nil
	}

	return &acoustic.ConfigurationError{
		Component: fmt.Sprintf("segment %d", i),
		Field:     "throat area",
		Value:     b,
		Reason:    fmt.Sprintf("does not match the mouth area %g of segment %d", a, i-1),
	}
}

// Len returns the number of segments.
func (c *Chain) Len() int { return len(c.segments) }

// Segment returns the i-th segment counted from the throat.
func (c *Chain) Segment(i int) Segment { return c.segments[i] }

// Segments returns a copy of the segments in throat-to-mouth order.
func (c *Chain) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)

	return out
}

// ThroatArea returns the throat area of the first segment.
func (c *Chain) ThroatArea() float64 { return c.segments[0].ThroatArea() }

// MouthArea returns the mouth area of the last segment.
func (c *Chain) MouthArea() float64 { return c.segments[len(c.segments)-1].MouthArea() }

// Length returns the total axial length.
func (c *Chain) Length() float64 {
	var l float64
	for _, s := range c.segments {
		l += s.Length()
	}

	return l
}

// Volume returns the total air volume of the horn.
func (c *Chain) Volume() float64 {
	var v float64
	for _, s := range c.segments {
		v += s.Volume()
	}

	return v
}

// TransferMatrix returns T = T0 * T1 * ... * Tn-1, relating (p, U) at the
// throat of the first segment to (p, U) at the mouth of the last. A failing
// segment is reported as a NumericDomainError carrying its index.
func (c *Chain) TransferMatrix(m acoustic.Medium, freq float64) (acoustic.Matrix, error) {
	var total acoustic.Matrix

	for i, s := range c.segments {
		t, err := s.TransferMatrix(m, freq)
		if err != nil {
			return acoustic.Matrix{}, atSegment(err, i, freq)
		}

		if i == 0 {
			total = t
			continue
		}

		total = total.Mul(t)
	}

	if !total.IsFinite() {
		return acoustic.Matrix{}, &acoustic.NumericDomainError{
			Frequency: freq, Segment: -1, Quantity: "chain transfer matrix", Value: math.NaN(),
			Reason: "product overflowed",
		}
	}

	return total, nil
}

func atSegment(err error, i int, freq float64) error {
	var nd *acoustic.NumericDomainError
	if errors.As(err, &nd) {
		cp := *nd
		cp.Segment = i
		cp.Frequency = freq

		return &cp
	}

	return fmt.Errorf("horn: segment %d: %w", i, err)
}

// MouthImpedance returns the radiation impedance loading the mouth.
func (c *Chain) MouthImpedance(m acoustic.Medium, freq float64) (complex128, error) {
	z, err := radiation.Impedance(m, freq, c.MouthArea())
	if err != nil {
		return 0, fmt.Errorf("horn: mouth radiation: %w", err)
	}

	return z, nil
}

// ThroatImpedance returns the impedance seen at the throat when the mouth is
// terminated by zMouth: (A*zMouth + B) / (C*zMouth + D).
func (c *Chain) ThroatImpedance(m acoustic.Medium, freq float64, zMouth complex128) (complex128, error) {
	t, err := c.TransferMatrix(m, freq)
	if err != nil {
		return 0, err
	}

	z := t.Load(zMouth)
	if cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return 0, &acoustic.NumericDomainError{
			Frequency: freq, Segment: -1, Quantity: "throat impedance", Value: cmplx.Abs(z),
			Reason: "back-substitution is singular",
		}
	}

	return z, nil
}

// RadiatingThroatImpedance returns the throat impedance with the mouth
// loaded by its own baffled-piston radiation impedance.
func (c *Chain) RadiatingThroatImpedance(m acoustic.Medium, freq float64) (complex128, error) {
	zMouth, err := c.MouthImpedance(m, freq)
	if err != nil {
		return 0, err
	}

	return c.ThroatImpedance(m, freq, zMouth)
}

// MouthState maps a throat state (p, U) to the mouth plane through the
// inverse chain matrix.
func (c *Chain) MouthState(m acoustic.Medium, freq float64, pThroat, uThroat complex128) (pMouth, uMouth complex128, err error) {
	t, err := c.TransferMatrix(m, freq)
	if err != nil {
		return 0, 0, err
	}

	pMouth, uMouth = t.Inverse().Apply(pThroat, uThroat)

	return pMouth, uMouth, nil
}

// ProfilePoint is one sample of the horn contour.
type ProfilePoint struct {
	X    float64 // axial distance from the chain throat, m
	Area float64 // m^2
}

// Profile samples the area along the whole chain at n evenly spaced axial
// positions, throat and mouth included. It needs no frequency evaluation.
func (c *Chain) Profile(n int) ([]ProfilePoint, error) {
	if n < 2 {
		return nil, fmt.Errorf("horn: profile needs at least 2 points, got %d", n)
	}

	total := c.Length()
	out := make([]ProfilePoint, n)

	seg, start := 0, 0.0
	for i := range out {
		x := total * float64(i) / float64(n-1)
		for seg < len(c.segments)-1 && x > start+c.segments[seg].Length() {
			start += c.segments[seg].Length()
			seg++
		}

		local := math.Min(math.Max(x-start, 0), c.segments[seg].Length())
		out[i] = ProfilePoint{X: x, Area: c.segments[seg].Area(local)}
	}

	return out, nil
}

// Cutoff search settings.
const (
	cutoffScanStart = 1.0  // Hz
	cutoffScanStop  = 1e5  // Hz
	cutoffScanStep  = 1.02 // ratio between scan points
	cutoffBisect    = 60
)

// MatrixCutoffs returns the flare cutoff of every segment as implied by its
// evaluated transfer matrix rather than by the closed form. For each segment
// cos(gL) is recovered from the A and D elements; the cutoff is the frequency
// where it drops to 1, i.e. where g turns from imaginary to real. Segments
// without a flare cutoff (uniform and conical) report 0.
//
// The extraction is per segment: the chained product mixes the cutoffs of
// its segments and has no single cos(gL) to recover.
func (c *Chain) MatrixCutoffs(m acoustic.Medium) ([]float64, error) {
	out := make([]float64, len(c.segments))

	for i, s := range c.segments {
		fc, err := matrixCutoff(m, s)
		if err != nil {
			return nil, atSegment(err, i, 0)
		}

		out[i] = fc
	}

	return out, nil
}

func matrixCutoff(m acoustic.Medium, s Segment) (float64, error) {
	sh := s.shape()

	det := sh.w0p + sh.wLp/sh.wL
	if math.Abs(det)*s.Length() < 1e-12 {
		return 0, nil
	}

	excess := func(f float64) (float64, error) {
		t, err := s.TransferMatrix(m, f)
		if err != nil {
			return 0, err
		}

		cos := (t.A*complex(sh.w0p/sh.wL, 0) + complex(sh.wLp, 0)*t.D) / complex(det, 0)

		return real(cos) - 1, nil
	}

	e, err := excess(cutoffScanStart)
	if err != nil {
		return 0, err
	}

	if e <= 0 {
		return 0, nil
	}

	lo := cutoffScanStart
	for hi := lo * cutoffScanStep; hi <= cutoffScanStop; hi *= cutoffScanStep {
		e, err := excess(hi)
		if err != nil {
			return 0, err
		}

		if e > 0 {
			lo = hi
			continue
		}

		for range cutoffBisect {
			mid := 0.5 * (lo + hi)

			e, err := excess(mid)
			if err != nil {
				return 0, err
			}

			if e > 0 {
				lo = mid
			} else {
				hi = mid
			}
		}

		return 0.5 * (lo + hi), nil
	}

	return 0, &acoustic.NumericDomainError{
		Frequency: cutoffScanStop, Segment: -1, Quantity: "cutoff", Value: math.Inf(1),
		Reason: "no cutoff below the scan limit",
	}
}
