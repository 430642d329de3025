package interp

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrLength is returned when x and y differ in length or have fewer
	// than two points.
	ErrLength = errors.New("interp: need at least two points of equal length")

	// ErrGrid is returned for non-positive or non-increasing abscissae.
	ErrGrid = errors.New("interp: frequencies must be positive and strictly increasing")
)

// Mode selects the interpolation kernel.
type Mode int

const (
	Linear Mode = iota
	Hermite
)

// Curve is a tabulated function of frequency.
type Curve struct {
	logx []float64
	y    []float64
	mode Mode
}

// NewCurve copies x and y. x must be positive and strictly increasing.
func NewCurve(x, y []float64, mode Mode) (*Curve, error) {
	if len(x) != len(y) || len(x) < 2 {
		return nil, ErrLength
	}

	logx := make([]float64, len(x))
	for i, v := range x {
		if !(v > 0) || math.IsInf(v, 0) || (i > 0 && v <= x[i-1]) {
			return nil, ErrGrid
		}

		logx[i] = math.Log(v)
	}

	return &Curve{logx: logx, y: append([]float64(nil), y...), mode: mode}, nil
}

// Span returns the first and last frequency of the curve.
func (c *Curve) Span() (lo, hi float64) {
	return math.Exp(c.logx[0]), math.Exp(c.logx[len(c.logx)-1])
}

// At returns the interpolated value at x. ok is false outside the span.
func (c *Curve) At(x float64) (v float64, ok bool) {
	if !(x > 0) {
		return math.NaN(), false
	}

	lx := math.Log(x)
	n := len(c.logx)

	const slack = 1e-12
	if lx < c.logx[0]-slack || lx > c.logx[n-1]+slack {
		return math.NaN(), false
	}

	i := sort.SearchFloat64s(c.logx, lx) - 1
	i = max(0, min(i, n-2))

	t := (lx - c.logx[i]) / (c.logx[i+1] - c.logx[i])
	t = max(0, min(t, 1))

	if c.mode == Hermite && i > 0 && i+2 < n {
		return Hermite4(t, c.y[i-1], c.y[i], c.y[i+1], c.y[i+2]), true
	}

	return Linear2(t, c.y[i], c.y[i+1]), true
}

// Resample evaluates the curve at every x. Points outside the span are NaN.
func (c *Curve) Resample(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i], _ = c.At(v)
	}

	return out
}

// Linear2 interpolates from x0 to x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

// Unwrap removes 360 degree jumps from a phase curve in degrees, in place.
func Unwrap(deg []float64) {
	offset := 0.0
	for i := 1; i < len(deg); i++ {
		d := deg[i] + offset - deg[i-1]
		for d > 180 {
			offset -= 360
			d -= 360
		}

		for d < -180 {
			offset += 360
			d += 360
		}

		deg[i] += offset
	}
}

// Wrap maps an angle in degrees to (-180, 180].
func Wrap(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}

	return deg
}
