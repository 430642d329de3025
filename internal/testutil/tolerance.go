// Package testutil holds tolerance assertions shared by the package tests.
package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireComplexNear fails t unless got lies within a relative distance
// rel of want, measured as |got-want|/|want|.
func RequireComplexNear(t *testing.T, name string, got, want complex128, rel float64) {
	t.Helper()
	if d := ComplexRelativeError(got, want); d > rel || math.IsNaN(d) {
		t.Fatalf("%s: got %v, want %v (relative error %.3g > %.3g)", name, got, want, d, rel)
	}
}

// RequireMagnitudePhase fails t if |got| deviates from |want| by more than
// rel (relative) or if their phases differ by more than deg degrees.
func RequireMagnitudePhase(t *testing.T, name string, got, want complex128, rel, deg float64) {
	t.Helper()
	if d := RelativeError(cmplx.Abs(got), cmplx.Abs(want)); d > rel || math.IsNaN(d) {
		t.Fatalf("%s: |got| = %.6g, |want| = %.6g (relative error %.3g > %.3g)",
			name, cmplx.Abs(got), cmplx.Abs(want), d, rel)
	}
	if p := PhaseDifference(got, want); p > deg {
		t.Fatalf("%s: phase differs by %.3g deg (> %.3g)", name, p, deg)
	}
}

// RelativeError returns |got-want|/|want|, or |got| when want is zero.
func RelativeError(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

// ComplexRelativeError is the complex counterpart of RelativeError.
func ComplexRelativeError(got, want complex128) float64 {
	if want == 0 {
		return cmplx.Abs(got)
	}
	return cmplx.Abs(got-want) / cmplx.Abs(want)
}

// PhaseDifference returns the absolute phase difference of a and b in
// degrees, wrapped to [0, 180].
func PhaseDifference(a, b complex128) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return math.Abs(cmplx.Phase(a/b)) * 180 / math.Pi
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
