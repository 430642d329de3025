package driver

import (
	"errors"
	"fmt"
	"math"
)

// ErrConvergence is matched by errors.Is against a *ConvergenceError.
var ErrConvergence = errors.New("driver: resonance did not converge")

// Solver defaults.
const (
	DefaultTolerance     = 0.1 // Hz
	DefaultMaxIterations = 20
)

// ConvergenceError reports that the resonance fixed-point iteration ran out
// of iterations. Estimate is the last iterate, not a converged value.
type ConvergenceError struct {
	Estimate   float64 // Hz
	Iterations int
	Delta      float64 // last frequency change, Hz
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("driver: resonance did not converge after %d iterations (last estimate %.3f Hz, change %.3g Hz)",
		e.Iterations, e.Estimate, e.Delta)
}

// Unwrap lets errors.Is(err, ErrConvergence) succeed.
func (e *ConvergenceError) Unwrap() error { return ErrConvergence }

// Resonance is a converged resonance frequency.
type Resonance struct {
	Frequency  float64 // Hz
	Iterations int
}

// RadiationMassFunc returns the one-sided radiation mass (kg) at a trial
// frequency.
type RadiationMassFunc func(freq float64) (float64, error)

// SolverOption configures [SolveResonance].
type SolverOption func(*solverConfig)

type solverConfig struct {
	tolerance     float64
	maxIterations int
}

// WithTolerance sets the frequency change (Hz) that ends the iteration.
func WithTolerance(hz float64) SolverOption {
	return func(cfg *solverConfig) {
		if hz > 0 {
			cfg.tolerance = hz
		}
	}
}

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) SolverOption {
	return func(cfg *solverConfig) {
		if n > 0 {
			cfg.maxIterations = n
		}
	}
}

// SolveResonance resolves the circular dependency between resonance
// frequency and radiation mass as an explicit fixed point:
//
//	f0     = 1 / (2*pi*sqrt(mass*compliance))
//	f(n+1) = 1 / (2*pi*sqrt((mass + 2*radMass(f(n))) * compliance))
//
// The iteration stops when |f(n+1) - f(n)| is below the tolerance. A nil
// radMass means no air load, which converges on the first iteration.
func SolveResonance(mass, compliance float64, radMass RadiationMassFunc, opts ...SolverOption) (Resonance, error) {
	cfg := solverConfig{tolerance: DefaultTolerance, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !(mass > 0) || !(compliance > 0) {
		return Resonance{}, fmt.Errorf("driver: mass %g and compliance %g must be positive", mass, compliance)
	}

	if radMass == nil {
		radMass = func(float64) (float64, error) { return 0, nil }
	}

	f := 1 / (2 * math.Pi * math.Sqrt(mass*compliance))
	delta := math.Inf(1)

	for i := 1; i <= cfg.maxIterations; i++ {
		mr, err := radMass(f)
		if err != nil {
			return Resonance{}, fmt.Errorf("driver: radiation mass at %g Hz: %w", f, err)
		}

		next := 1 / (2 * math.Pi * math.Sqrt((mass+2*mr)*compliance))
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return Resonance{}, &ConvergenceError{Estimate: f, Iterations: i, Delta: math.NaN()}
		}

		delta = math.Abs(next - f)
		f = next

		if delta < cfg.tolerance {
			return Resonance{Frequency: f, Iterations: i}, nil
		}
	}

	return Resonance{}, &ConvergenceError{Estimate: f, Iterations: cfg.maxIterations, Delta: delta}
}
