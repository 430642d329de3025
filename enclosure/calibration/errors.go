package calibration

import (
	"errors"
	"fmt"
	"math"
)

// ErrInconsistent is matched by errors.Is against an *InconsistencyError.
var ErrInconsistent = errors.New("calibration: calibrated and uncalibrated results are inconsistent")

// InconsistencyError reports a point where the calibrated level departs
// from the uncalibrated one by more than the expected bound.
type InconsistencyError struct {
	Family    Family
	Frequency float64 // Hz
	Deviation float64 // dB, calibrated - uncalibrated
	Bound     float64 // dB
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("calibration: %s at %g Hz: calibrated level deviates by %.3g dB (bound %.3g dB)",
		e.Family, e.Frequency, e.Deviation, e.Bound)
}

// Unwrap lets errors.Is(err, ErrInconsistent) succeed.
func (e *InconsistencyError) Unwrap() error { return ErrInconsistent }

// Check compares a calibrated curve with its uncalibrated source and
// returns an *InconsistencyError for the first point whose difference
// exceeds bound dB. Points where either curve is not finite are ignored;
// those are reported by the sweep itself.
func Check(f Family, freqs, uncalibrated, calibrated []float64, bound float64) error {
	if len(freqs) != len(uncalibrated) || len(freqs) != len(calibrated) {
		return fmt.Errorf("calibration: length mismatch: %d frequencies, %d uncalibrated, %d calibrated",
			len(freqs), len(uncalibrated), len(calibrated))
	}

	for i, freq := range freqs {
		d := calibrated[i] - uncalibrated[i]
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}

		if math.Abs(d) > bound {
			return &InconsistencyError{Family: f, Frequency: freq, Deviation: d, Bound: bound}
		}
	}

	return nil
}
