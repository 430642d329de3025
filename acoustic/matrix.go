package acoustic

import (
	"math"
	"math/cmplx"
)

// Matrix is an acoustic two-port (ABCD) matrix at a single frequency.
// See the package documentation for the orientation convention.
type Matrix struct {
	A, B, C, D complex128
}

// Identity returns the two-port of a zero-length connection.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Shunt returns the two-port of an admittance y connected across the line.
func Shunt(y complex128) Matrix {
	return Matrix{A: 1, C: y, D: 1}
}

// Series returns the two-port of an impedance z inserted in the line.
func Series(z complex128) Matrix {
	return Matrix{A: 1, B: z, D: 1}
}

// Mul returns m*n, the cascade of m (near side) followed by n (far side).
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
	}
}

// Det returns AD - BC. Reciprocal networks have Det() == 1.
func (m Matrix) Det() complex128 {
	return m.A*m.D - m.B*m.C
}

// Inverse returns the matrix mapping the near-plane state back to the far
// plane. It uses the general inverse so it stays correct when the
// determinant drifts from unity by rounding.
func (m Matrix) Inverse() Matrix {
	det := m.Det()

	return Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
}

// Apply maps the far-plane state (p2, u2) to the near-plane state.
func (m Matrix) Apply(p2, u2 complex128) (p1, u1 complex128) {
	return m.A*p2 + m.B*u2, m.C*p2 + m.D*u2
}

// Load returns the impedance seen at the near plane when the far plane is
// terminated by z. An infinite z (rigid termination) yields A/C.
func (m Matrix) Load(z complex128) complex128 {
	if cmplx.IsInf(z) {
		return m.A / m.C
	}

	return (m.A*z + m.B) / (m.C*z + m.D)
}

// IsFinite reports whether every element is finite.
func (m Matrix) IsFinite() bool {
	for _, v := range [...]complex128{m.A, m.B, m.C, m.D} {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}

	return true
}

// ReciprocityError returns |Det() - 1|.
func (m Matrix) ReciprocityError() float64 {
	return cmplx.Abs(m.Det() - 1)
}

// Parallel returns the parallel combination of two impedances.
// An infinite operand is treated as an open circuit.
func Parallel(a, b complex128) complex128 {
	switch {
	case cmplx.IsInf(a):
		return b
	case cmplx.IsInf(b):
		return a
	}

	return a * b / (a + b)
}

// Power returns Re{p * conj(u)}, the real power carried through a
// reference plane by RMS phasors.
func Power(p, u complex128) float64 {
	return real(p * cmplx.Conj(u))
}

// PhaseDegrees returns the argument of z in degrees.
func PhaseDegrees(z complex128) float64 {
	return cmplx.Phase(z) * 180 / math.Pi
}
