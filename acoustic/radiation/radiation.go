// Package radiation computes the acoustic radiation impedance of a rigid
// circular piston set in an infinite baffle.
//
// The normalized impedance is
//
//	z(ka) = R1(2ka) + j*X1(2ka)
//	R1(x) = 1 - 2*J1(x)/x
//	X1(x) = 2*H1(x)/x
//
// where J1 is the Bessel function of the first kind and H1 the Struve
// function, both of order one. The evaluation is split in three regions:
//
//   - ka < [AsymptoteLimit]: two-term small-argument asymptotes
//     (mass-controlled, X1 ~ 8ka/3pi), matching the series to better than
//     1e-9 relative at the switch
//   - 2ka <= 16: convergent power series for both terms
//   - 2ka > 16: math.J1 and the large-argument expansion H1 = Y1 + (2/pi)*S(x)
//
// The high-ka limit is R1 -> 1, X1 -> 0.
package radiation

import (
	"math"

	"github.com/cwbudde/algo-horn/acoustic"
)

// AsymptoteLimit is the ka below which the small-argument asymptotes are
// used in place of the series.
const AsymptoteLimit = 0.01

// seriesLimit is the largest argument x = 2ka evaluated by power series.
const seriesLimit = 16.0

// Normalized returns R1(2ka) + j*X1(2ka) for a non-negative ka.
// The real part is never negative.
func Normalized(ka float64) complex128 {
	if ka <= 0 {
		return 0
	}

	if ka < AsymptoteLimit {
		return asymptote(ka)
	}

	return fullForm(ka)
}

func asymptote(ka float64) complex128 {
	k2 := ka * ka
	r := k2 / 2 * (1 - k2/6)
	x := 8 * ka / (3 * math.Pi) * (1 - 4*k2/15)

	return complex(r, x)
}

func fullForm(ka float64) complex128 {
	x := 2 * ka

	var r, h float64
	if x <= seriesLimit {
		r = resistanceSeries(x)
		h = StruveH1(x)
	} else {
		r = 1 - 2*math.J1(x)/x
		h = struveAsymptotic(x)
	}

	return complex(math.Max(r, 0), 2*h/x)
}

// resistanceSeries evaluates 1 - 2*J1(x)/x without the cancellation of the
// direct form:
//
//	R1(x) = sum_{k>=1} (-1)^(k+1) (x/2)^(2k) / (k! (k+1)!)
func resistanceSeries(x float64) float64 {
	q := x * x / 4
	term := q / 2
	sum := term

	for k := 1; k < 200; k++ {
		term *= -q / (float64(k+1) * float64(k+2))
		sum += term

		if math.Abs(term) <= 1e-17*math.Abs(sum) {
			break
		}
	}

	return sum
}

// StruveH1 returns the Struve function H1(x) for x >= 0.
func StruveH1(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x <= seriesLimit:
		return struveSeries(x)
	default:
		return struveAsymptotic(x)
	}
}

// struveSeries sums
//
//	H1(x) = sum_{k>=0} (-1)^k (x/2)^(2k+2) / (Gamma(k+3/2) Gamma(k+5/2))
func struveSeries(x float64) float64 {
	q := x * x / 4
	term := 2 * x * x / (3 * math.Pi)
	sum := term

	for k := 0; k < 200; k++ {
		term *= -q / ((float64(k) + 1.5) * (float64(k) + 2.5))
		sum += term

		if math.Abs(term) <= 1e-17*math.Abs(sum) {
			break
		}
	}

	return sum
}

// struveAsymptotic evaluates H1(x) = Y1(x) + (2/pi) sum t_k with
// t_0 = 1 and t_{k+1} = t_k (1 - 4k^2)/x^2, truncated at the smallest term.
func struveAsymptotic(x float64) float64 {
	inv := 1 / (x * x)
	term := 1.0
	sum := term

	for k := 0; k < 60; k++ {
		next := term * (1 - 4*float64(k*k)) * inv
		if math.Abs(next) >= math.Abs(term) {
			break
		}

		term = next
		sum += term

		if math.Abs(term) < 1e-17 {
			break
		}
	}

	return math.Y1(x) + 2/math.Pi*sum
}

// Impedance returns the acoustic radiation impedance (Pa*s/m^3) of a
// baffled piston of the given area at freq.
func Impedance(m acoustic.Medium, freq, area float64) (complex128, error) {
	if err := validate(freq, area); err != nil {
		return 0, err
	}

	ka := m.Wavenumber(freq) * math.Sqrt(area/math.Pi)

	return complex(m.DuctImpedance(area), 0) * Normalized(ka), nil
}

// Mass returns the mechanical radiation mass (kg) loading one side of a
// baffled piston: S^2 * Im{Z}/omega. It tends to 8*rho*a^3/3 as ka -> 0.
func Mass(m acoustic.Medium, freq, area float64) (float64, error) {
	z, err := Impedance(m, freq, area)
	if err != nil {
		return 0, err
	}

	return area * area * imag(z) / acoustic.AngularFrequency(freq), nil
}

// LowFrequencyMass returns the ka -> 0 limit of [Mass], 8*rho*a^3/3.
func LowFrequencyMass(m acoustic.Medium, area float64) float64 {
	a := math.Sqrt(area / math.Pi)
	return 8 * m.Density * a * a * a / 3
}

func validate(freq, area float64) error {
	if !(freq > 0) || math.IsInf(freq, 0) {
		return &acoustic.ConfigurationError{Component: "radiation", Field: "frequency", Value: freq, Reason: "must be positive and finite"}
	}

	if !(area > 0) || math.IsInf(area, 0) {
		return &acoustic.ConfigurationError{Component: "radiation", Field: "piston area", Value: area, Reason: "must be positive and finite"}
	}

	return nil
}
