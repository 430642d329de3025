package interp

import (
	"errors"
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestCurveIsLinearInLogFrequency(t *testing.T) {
	x := []float64{10, 100, 1000, 10000}
	y := []float64{0, 1, 2, 3}

	for _, mode := range []Mode{Linear, Hermite} {
		c, err := NewCurve(x, y, mode)
		if err != nil {
			t.Fatal(err)
		}

		for _, tc := range []struct{ x, want float64 }{
			{10, 0},
			{math.Sqrt(10 * 100), 0.5},
			{300, math.Log10(300) - 1},
			{10000, 3},
		} {
			got, ok := c.At(tc.x)
			if !ok || math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("mode %d, At(%v) = %v, %v; want %v", mode, tc.x, got, ok, tc.want)
			}
		}
	}
}

func TestCurveOutsideSpan(t *testing.T) {
	c, err := NewCurve([]float64{20, 200}, []float64{1, 2}, Linear)
	if err != nil {
		t.Fatal(err)
	}

	for _, x := range []float64{10, 201, 0, -5} {
		if v, ok := c.At(x); ok || !math.IsNaN(v) {
			t.Fatalf("At(%v) = %v, %v; want NaN outside the span", x, v, ok)
		}
	}

	out := c.Resample([]float64{10, 20, 200})
	if !math.IsNaN(out[0]) || out[1] != 1 || out[2] != 2 {
		t.Fatalf("Resample = %v", out)
	}

	if lo, hi := c.Span(); math.Abs(lo-20) > 1e-9 || math.Abs(hi-200) > 1e-9 {
		t.Fatalf("Span = %v, %v", lo, hi)
	}
}

func TestNewCurveValidation(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want error
	}{
		{"short", []float64{1}, []float64{1}, ErrLength},
		{"mismatch", []float64{1, 2}, []float64{1}, ErrLength},
		{"zero", []float64{0, 2}, []float64{1, 1}, ErrGrid},
		{"descending", []float64{3, 2}, []float64{1, 1}, ErrGrid},
		{"duplicate", []float64{2, 2}, []float64{1, 1}, ErrGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCurve(tt.x, tt.y, Linear); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	phase := []float64{170, 179, -175, -160, 170, 10}
	Unwrap(phase)

	want := []float64{170, 179, 185, 200, 170, 10}
	for i := range want {
		if math.Abs(phase[i]-want[i]) > 1e-12 {
			t.Fatalf("unwrapped = %v, want %v", phase, want)
		}
	}
}

func TestWrap(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{725, 5},
		{-350, 10},
	} {
		if got := Wrap(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Wrap(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
