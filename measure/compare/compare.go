package compare

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-horn/internal/interp"
)

const (
	defaultLowHz  = 20.0
	defaultHighHz = 20000.0
)

// ErrNoOverlap is returned when no frequency lies in both the band and the
// reference span.
var ErrNoOverlap = errors.New("compare: no frequencies to compare")

// Config selects the comparison band. Zero values select 20 Hz to 20 kHz.
type Config struct {
	LowHz  float64
	HighHz float64
	Mode   interp.Mode
}

// Deviation summarises the difference between two curves.
type Deviation struct {
	Points int

	MaxMagnitudeError float64 // relative, |(|got|-|ref|)| / |ref|
	MaxPhaseError     float64 // degrees
	MaxDB             float64 // largest |level difference| in dB
	RMSdB             float64
	MeanDB            float64 // signed mean level difference, got - ref

	WorstFrequency float64 // Hz, where MaxDB occurs
}

func normalizeConfig(cfg Config) Config {
	if cfg.LowHz <= 0 {
		cfg.LowHz = defaultLowHz
	}

	if cfg.HighHz <= 0 {
		cfg.HighHz = defaultHighHz
	}

	return cfg
}

// Impedance compares complex curves got (on freqs) and ref (on refFreqs).
func Impedance(freqs []float64, got []complex128, refFreqs []float64, ref []complex128, cfg Config) (Deviation, error) {
	if len(freqs) != len(got) {
		return Deviation{}, fmt.Errorf("compare: %d frequencies, %d values", len(freqs), len(got))
	}

	refMag, refPhase := polar(ref)
	interp.Unwrap(refPhase)

	magCurve, err := interp.NewCurve(refFreqs, refMag, cfg.Mode)
	if err != nil {
		return Deviation{}, fmt.Errorf("compare: reference: %w", err)
	}

	phaseCurve, err := interp.NewCurve(refFreqs, refPhase, cfg.Mode)
	if err != nil {
		return Deviation{}, fmt.Errorf("compare: reference: %w", err)
	}

	gotMag, gotPhase := polar(got)
	wantMag := magCurve.Resample(freqs)
	wantPhase := phaseCurve.Resample(freqs)

	cfg = normalizeConfig(cfg)

	dev, err := levels(freqs, toDB(gotMag), toDB(wantMag), cfg)
	if err != nil {
		return Deviation{}, err
	}

	for i, f := range freqs {
		if !inBand(cfg, f) || math.IsNaN(wantMag[i]) || math.IsNaN(gotMag[i]) {
			continue
		}

		if wantMag[i] > 0 {
			dev.MaxMagnitudeError = math.Max(dev.MaxMagnitudeError, math.Abs(gotMag[i]-wantMag[i])/wantMag[i])
		}

		dev.MaxPhaseError = math.Max(dev.MaxPhaseError, math.Abs(interp.Wrap(gotPhase[i]-wantPhase[i])))
	}

	return dev, nil
}

// Levels compares two dB curves such as SPL responses.
func Levels(freqs, got, refFreqs, ref []float64, cfg Config) (Deviation, error) {
	if len(freqs) != len(got) {
		return Deviation{}, fmt.Errorf("compare: %d frequencies, %d values", len(freqs), len(got))
	}

	c, err := interp.NewCurve(refFreqs, ref, cfg.Mode)
	if err != nil {
		return Deviation{}, fmt.Errorf("compare: reference: %w", err)
	}

	return levels(freqs, got, c.Resample(freqs), normalizeConfig(cfg))
}

func levels(freqs, got, want []float64, cfg Config) (Deviation, error) {
	diff := make([]float64, 0, len(freqs))
	var dev Deviation

	for i, f := range freqs {
		d := got[i] - want[i]
		if !inBand(cfg, f) || math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}

		if math.Abs(d) > dev.MaxDB || len(diff) == 0 {
			dev.MaxDB, dev.WorstFrequency = math.Abs(d), f
		}

		diff = append(diff, d)
	}

	if len(diff) == 0 {
		return Deviation{}, ErrNoOverlap
	}

	sq := make([]float64, len(diff))
	vecmath.MulBlock(sq, diff, diff)

	var sum, sumSq float64
	for i := range diff {
		sum += diff[i]
		sumSq += sq[i]
	}

	n := float64(len(diff))
	dev.Points = len(diff)
	dev.MeanDB = sum / n
	dev.RMSdB = math.Sqrt(sumSq / n)

	return dev, nil
}

func inBand(cfg Config, f float64) bool {
	return f >= cfg.LowHz && f <= cfg.HighHz
}

// polar splits z into magnitude and phase in degrees.
func polar(z []complex128) (mag, phase []float64) {
	re := make([]float64, len(z))
	im := make([]float64, len(z))
	phase = make([]float64, len(z))

	for i, v := range z {
		re[i], im[i] = real(v), imag(v)
		phase[i] = cmplx.Phase(v) * 180 / math.Pi
	}

	mag = make([]float64, len(z))
	vecmath.Magnitude(mag, re, im)

	return mag, phase
}

func toDB(mag []float64) []float64 {
	out := make([]float64, len(mag))
	for i, m := range mag {
		out[i] = 20 * math.Log10(m)
	}

	return out
}
