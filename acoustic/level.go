package acoustic

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps, relative to the
// larger magnitude.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// PressureToSPL converts an RMS pressure in Pa to dB SPL re 20 uPa.
// Returns -Inf for zero and NaN for negative values.
func PressureToSPL(pressure float64) float64 {
	if pressure < 0 {
		return math.NaN()
	}

	if pressure == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(pressure/ReferencePressure)
}

// SPLToPressure converts dB SPL to RMS pressure in Pa.
func SPLToPressure(spl float64) float64 {
	return ReferencePressure * math.Pow(10, spl/20)
}

// FarFieldPressure returns the RMS pressure at distance r produced by an
// acoustic power P radiated with directivity factor q:
//
//	p^2 = rho*c*P*q / (4*pi*r^2)
//
// q = 2 corresponds to half-space (baffled) radiation.
func (m Medium) FarFieldPressure(power, q, r float64) float64 {
	if power <= 0 {
		return 0
	}

	return math.Sqrt(m.CharacteristicImpedance() * power * q / (4 * math.Pi * r * r))
}
