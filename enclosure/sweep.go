package enclosure

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

var (
	// ErrNoFrequencies is returned for an empty frequency grid.
	ErrNoFrequencies = errors.New("enclosure: no frequencies to evaluate")

	// ErrNilSystem is returned when Sweep is called without a system.
	ErrNilSystem = errors.New("enclosure: nil system")
)

// SweepOption configures [Sweep].
type SweepOption func(*sweepConfig)

type sweepConfig struct {
	strict  bool
	workers int
	cond    Conditions
	bound   float64 // dB, NaN disables the consistency check
}

// WithStrict makes the first failing point abort the sweep.
func WithStrict(strict bool) SweepOption {
	return func(cfg *sweepConfig) {
		cfg.strict = strict
	}
}

// WithWorkers bounds the number of goroutines. Values below 1 select
// GOMAXPROCS.
func WithWorkers(n int) SweepOption {
	return func(cfg *sweepConfig) {
		cfg.workers = n
	}
}

// WithVoltage sets the RMS terminal voltage.
func WithVoltage(volts float64) SweepOption {
	return func(cfg *sweepConfig) {
		cfg.cond.Voltage = volts
	}
}

// WithDistance sets the observation distance in metres.
func WithDistance(metres float64) SweepOption {
	return func(cfg *sweepConfig) {
		cfg.cond.Distance = metres
	}
}

// WithCalibration selects the calibration table; nil disables calibration.
func WithCalibration(t *calibration.Table) SweepOption {
	return func(cfg *sweepConfig) {
		cfg.cond.Calibration = t
	}
}

// WithConsistencyBound enables the calibration consistency check: after
// the sweep, any point whose calibrated and uncalibrated SPL differ by more
// than db is reported as a *calibration.InconsistencyError.
func WithConsistencyBound(db float64) SweepOption {
	return func(cfg *sweepConfig) {
		cfg.bound = db
	}
}

// Response holds parallel per-frequency arrays. A failed point is NaN in
// every real array and NaN+NaNi in Impedance, and Errors holds the cause.
type Response struct {
	Family      calibration.Family
	Conditions  Conditions
	Frequencies []float64

	Impedance       []complex128 // ohm
	SPL             []float64    // dB, calibrated when a table is set
	UncalibratedSPL []float64    // dB
	Efficiency      []float64
	AcousticPower   []float64 // W
	Velocity        []float64 // diaphragm, m/s rms
	Displacement    []float64 // diaphragm, peak m

	Errors []error // nil for points that were computed
}

// Sweep evaluates sys at every frequency of freqs in parallel. Results are
// stored by index, so the order of evaluation never matters.
//
// In the default mode a failing point is marked NaN and its error is kept
// in Response.Errors. With [WithStrict] the sweep stops dispatching new
// points after the first failure and returns the error of the lowest
// failing frequency index.
func Sweep(sys System, freqs []float64, opts ...SweepOption) (*Response, error) {
	if sys == nil {
		return nil, ErrNilSystem
	}

	if len(freqs) == 0 {
		return nil, ErrNoFrequencies
	}

	cfg := sweepConfig{cond: DefaultConditions(), bound: math.NaN()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := cfg.cond.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = min(workers, len(freqs))

	resp := newResponse(sys.Family(), cfg.cond, freqs)

	var (
		g      errgroup.Group
		failed atomic.Bool
	)

	g.SetLimit(workers)

	// Go blocks while all workers are busy, so every index below a failing
	// one has already been handed out and the lowest recorded error is the
	// lowest failing index overall.
	for i := range freqs {
		if cfg.strict && failed.Load() {
			break
		}

		g.Go(func() error {
			p, err := sys.At(freqs[i], cfg.cond)
			if err != nil {
				resp.Errors[i] = fmt.Errorf("enclosure: %g Hz: %w", freqs[i], err)
				failed.Store(true)

				return nil
			}

			resp.set(i, p)

			return nil
		})
	}

	_ = g.Wait()

	if cfg.strict {
		if err := resp.Err(); err != nil {
			return nil, err
		}
	}

	if !math.IsNaN(cfg.bound) && cfg.cond.Calibration != nil {
		if err := calibration.Check(resp.Family, resp.Frequencies, resp.UncalibratedSPL, resp.SPL, cfg.bound); err != nil {
			return resp, err
		}
	}

	return resp, nil
}

func newResponse(family calibration.Family, cond Conditions, freqs []float64) *Response {
	n := len(freqs)
	r := &Response{
		Family:          family,
		Conditions:      cond,
		Frequencies:     append([]float64(nil), freqs...),
		Impedance:       make([]complex128, n),
		SPL:             make([]float64, n),
		UncalibratedSPL: make([]float64, n),
		Efficiency:      make([]float64, n),
		AcousticPower:   make([]float64, n),
		Velocity:        make([]float64, n),
		Displacement:    make([]float64, n),
		Errors:          make([]error, n),
	}

	nan := math.NaN()
	for i := range n {
		r.Impedance[i] = cmplx.NaN()
		r.SPL[i] = nan
		r.UncalibratedSPL[i] = nan
		r.Efficiency[i] = nan
		r.AcousticPower[i] = nan
		r.Velocity[i] = nan
		r.Displacement[i] = nan
	}

	return r
}

func (r *Response) set(i int, p Point) {
	r.Impedance[i] = p.Impedance
	r.SPL[i] = p.SPL
	r.UncalibratedSPL[i] = p.UncalibratedSPL
	r.Efficiency[i] = p.Efficiency
	r.AcousticPower[i] = p.AcousticPower
	r.Velocity[i] = cmplx.Abs(p.Velocity)
	r.Displacement[i] = p.PeakExcursion
}

// Len returns the number of points.
func (r *Response) Len() int { return len(r.Frequencies) }

// Failed returns the indices of points that could not be computed.
func (r *Response) Failed() []int {
	var out []int
	for i, err := range r.Errors {
		if err != nil {
			out = append(out, i)
		}
	}

	return out
}

// Err returns the error of the lowest failing index, or nil.
func (r *Response) Err() error {
	for _, err := range r.Errors {
		if err != nil {
			return err
		}
	}

	return nil
}

// ImpedanceMagnitude returns |Z| for every point.
func (r *Response) ImpedanceMagnitude() []float64 {
	re := make([]float64, r.Len())
	im := make([]float64, r.Len())
	for i, z := range r.Impedance {
		re[i], im[i] = real(z), imag(z)
	}

	out := make([]float64, r.Len())
	vecmath.Magnitude(out, re, im)

	return out
}

// ImpedancePhase returns the impedance phase in degrees for every point.
func (r *Response) ImpedancePhase() []float64 {
	out := make([]float64, r.Len())
	for i, z := range r.Impedance {
		out[i] = cmplx.Phase(z) * 180 / math.Pi
	}

	return out
}

// ExcursionRatio returns the peak displacement relative to xmax; values
// above 1 exceed the linear excursion limit.
func (r *Response) ExcursionRatio(xmax float64) []float64 {
	out := make([]float64, r.Len())
	for i, x := range r.Displacement {
		out[i] = x / xmax
	}

	return out
}

// LogFrequencies returns n frequencies spaced logarithmically from start to
// stop inclusive.
func LogFrequencies(start, stop float64, n int) ([]float64, error) {
	if !(start > 0) || !(stop > start) || math.IsInf(stop, 0) {
		return nil, fmt.Errorf("enclosure: invalid frequency range %g..%g Hz", start, stop)
	}

	if n < 2 {
		return nil, fmt.Errorf("enclosure: need at least 2 frequencies, got %d", n)
	}

	out := make([]float64, n)
	ratio := math.Log(stop / start)
	for i := range out {
		out[i] = start * math.Exp(ratio*float64(i)/float64(n-1))
	}

	out[n-1] = stop

	return out, nil
}
