package compare

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-horn/internal/interp"
)

func logGrid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo * math.Pow(hi/lo, float64(i)/float64(n-1))
	}

	out[n-1] = hi

	return out
}

// resonance is a smooth impedance-like curve with a phase that crosses
// +-180 degrees after the 1000 Hz rotation.
func resonance(f float64) complex128 {
	jx := complex(0, f/60)
	z := 6 + 20i/(jx+1/jx+0.5)

	return z * cmplx.Exp(complex(0, f/1000*2*math.Pi))
}

func sample(freqs []float64, fn func(float64) complex128) []complex128 {
	out := make([]complex128, len(freqs))
	for i, f := range freqs {
		out[i] = fn(f)
	}

	return out
}

func TestImpedanceIdenticalCurves(t *testing.T) {
	freqs := logGrid(20, 20000, 300)
	z := sample(freqs, resonance)

	dev, err := Impedance(freqs, z, freqs, z, Config{})
	if err != nil {
		t.Fatal(err)
	}

	if dev.Points != 300 || dev.MaxDB > 1e-9 || dev.MaxPhaseError > 1e-9 || dev.MaxMagnitudeError > 1e-9 {
		t.Fatalf("identical curves deviate: %+v", dev)
	}
}

func TestImpedanceResampledReference(t *testing.T) {
	freqs := logGrid(20, 20000, 200)
	refFreqs := logGrid(10, 40000, 4000)

	for _, mode := range []interp.Mode{interp.Linear, interp.Hermite} {
		dev, err := Impedance(freqs, sample(freqs, resonance), refFreqs, sample(refFreqs, resonance), Config{Mode: mode})
		if err != nil {
			t.Fatal(err)
		}

		if dev.MaxMagnitudeError > 0.01 || dev.MaxPhaseError > 1 {
			t.Fatalf("mode %d: resampling error too large: %+v", mode, dev)
		}
	}
}

func TestImpedanceDetectsOffset(t *testing.T) {
	freqs := logGrid(20, 20000, 100)
	ref := sample(freqs, resonance)
	got := make([]complex128, len(ref))

	rot := cmplx.Rect(1.1, 5*math.Pi/180)
	for i := range ref {
		got[i] = ref[i] * rot
	}

	dev, err := Impedance(freqs, got, freqs, ref, Config{})
	if err != nil {
		t.Fatal(err)
	}

	wantDB := 20 * math.Log10(1.1)
	if math.Abs(dev.MaxMagnitudeError-0.1) > 1e-9 || math.Abs(dev.MaxPhaseError-5) > 1e-9 {
		t.Fatalf("deviation %+v, want 10 %% and 5 deg", dev)
	}

	if math.Abs(dev.RMSdB-wantDB) > 1e-9 || math.Abs(dev.MeanDB-wantDB) > 1e-9 {
		t.Fatalf("RMS %v, mean %v, want %v dB", dev.RMSdB, dev.MeanDB, wantDB)
	}
}

func TestLevelsBand(t *testing.T) {
	freqs := []float64{50, 100, 200, 400, 800}
	got := []float64{90, 91, 95, 92, 80}
	ref := []float64{90, 90, 90, 90, 90}

	dev, err := Levels(freqs, got, freqs, ref, Config{LowHz: 80, HighHz: 500})
	if err != nil {
		t.Fatal(err)
	}

	if dev.Points != 3 || dev.MaxDB != 5 || dev.WorstFrequency != 200 {
		t.Fatalf("deviation %+v", dev)
	}

	if want := math.Sqrt((1 + 25 + 4) / 3.0); math.Abs(dev.RMSdB-want) > 1e-12 {
		t.Fatalf("RMS %v, want %v", dev.RMSdB, want)
	}

	if math.Abs(dev.MeanDB-8.0/3) > 1e-12 {
		t.Fatalf("mean %v, want %v", dev.MeanDB, 8.0/3)
	}
}

func TestErrors(t *testing.T) {
	freqs := []float64{100, 200}

	if _, err := Levels(freqs, []float64{1}, freqs, []float64{1, 2}, Config{}); err == nil {
		t.Fatal("length mismatch accepted")
	}

	if _, err := Levels(freqs, []float64{1, 2}, []float64{200, 100}, []float64{1, 2}, Config{}); !errors.Is(err, interp.ErrGrid) {
		t.Fatalf("unsorted reference: %v", err)
	}

	_, err := Levels(freqs, []float64{1, 2}, []float64{1000, 2000}, []float64{1, 2}, Config{})
	if !errors.Is(err, ErrNoOverlap) {
		t.Fatalf("disjoint spans: %v", err)
	}
}
