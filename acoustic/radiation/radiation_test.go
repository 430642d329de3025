package radiation

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-horn/acoustic"
)

func TestResistanceNonNegative(t *testing.T) {
	m := acoustic.DefaultMedium()
	areas := []float64{1e-6, 1.84e-4, 0.022, 0.5, 4}

	for _, area := range areas {
		for f := 0.1; f < 1e5; f *= 1.07 {
			z, err := Impedance(m, f, area)
			if err != nil {
				t.Fatalf("Impedance(%g, %g): %v", f, area, err)
			}

			if real(z) < 0 {
				t.Fatalf("Re{Z}(%g Hz, %g m^2) = %g < 0", f, area, real(z))
			}

			if math.IsNaN(imag(z)) || math.IsInf(imag(z), 0) {
				t.Fatalf("Im{Z}(%g Hz, %g m^2) not finite", f, area)
			}
		}
	}
}

func TestAsymptoteContinuity(t *testing.T) {
	low := asymptote(AsymptoteLimit)
	full := fullForm(AsymptoteLimit)

	dr := math.Abs(real(low)-real(full)) / real(full)
	dx := math.Abs(imag(low)-imag(full)) / imag(full)

	if dr > 1e-9 || dx > 1e-9 {
		t.Fatalf("discontinuity at ka=%g: resistance %g, reactance %g", AsymptoteLimit, dr, dx)
	}
}

func TestNormalizedKnownValues(t *testing.T) {
	tests := []struct {
		ka    float64
		wantR float64
		wantX float64
	}{
		// R1(2) = 1 - J1(2), X1(2) = H1(2).
		{1, 0.4232751922431266, 0.6467637282835621},
	}

	for _, tt := range tests {
		z := Normalized(tt.ka)
		if math.Abs(real(z)-tt.wantR) > 1e-12 {
			t.Errorf("R1(2*%g) = %.15g, want %.15g", tt.ka, real(z), tt.wantR)
		}

		if math.Abs(imag(z)-tt.wantX) > 1e-12 {
			t.Errorf("X1(2*%g) = %.15g, want %.15g", tt.ka, imag(z), tt.wantX)
		}
	}
}

func TestNormalizedLimits(t *testing.T) {
	if z := Normalized(0); z != 0 {
		t.Fatalf("Normalized(0) = %v, want 0", z)
	}

	// Mass-controlled limit.
	ka := 1e-4
	z := Normalized(ka)
	if want := 8 * ka / (3 * math.Pi); math.Abs(imag(z)-want)/want > 1e-6 {
		t.Fatalf("X1 at ka=%g = %g, want %g", ka, imag(z), want)
	}

	// High-ka limit.
	z = Normalized(200)
	if math.Abs(real(z)-1) > 0.01 || imag(z) > 0.01 || imag(z) < 0 {
		t.Fatalf("Normalized(200) = %v, want ~1+0j", z)
	}
}

func TestStruveRegionsAgree(t *testing.T) {
	series := struveSeries(seriesLimit)
	asym := struveAsymptotic(seriesLimit)

	if math.Abs(series-asym) > 1e-6 {
		t.Fatalf("H1(%g): series %.12g, asymptotic %.12g", seriesLimit, series, asym)
	}
}

func TestMassLowFrequencyLimit(t *testing.T) {
	m := acoustic.DefaultMedium()
	area := 0.022

	got, err := Mass(m, 5, area)
	if err != nil {
		t.Fatal(err)
	}

	want := LowFrequencyMass(m, area)
	if math.Abs(got-want)/want > 1e-3 {
		t.Fatalf("Mass = %g kg, want %g kg", got, want)
	}
}

func TestImpedanceValidation(t *testing.T) {
	m := acoustic.DefaultMedium()
	tests := []struct {
		name string
		f    float64
		area float64
	}{
		{"zero frequency", 0, 0.01},
		{"negative frequency", -10, 0.01},
		{"zero area", 100, 0},
		{"negative area", 100, -1},
		{"NaN frequency", math.NaN(), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Impedance(m, tt.f, tt.area)
			if !errors.Is(err, acoustic.ErrConfiguration) {
				t.Fatalf("err = %v, want ErrConfiguration", err)
			}
		})
	}
}
