package driver

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/radiation"
)

// reference65 is a 12" class driver resonating near 65 Hz in free air.
func reference65() Parameters {
	return Parameters{
		Mms:  0.030,
		Cms:  1 / (math.Pow(2*math.Pi*65, 2) * 0.030),
		Rms:  1.2,
		Re:   5.3,
		Le:   0.5e-3,
		Bl:   12.4,
		Sd:   220e-4,
		Xmax: 4e-3,
	}
}

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Parameters)
		field string
	}{
		{"zero mass", func(p *Parameters) { p.Mms = 0 }, "moving mass"},
		{"negative compliance", func(p *Parameters) { p.Cms = -1 }, "compliance"},
		{"zero resistance", func(p *Parameters) { p.Rms = 0 }, "mechanical resistance"},
		{"zero Re", func(p *Parameters) { p.Re = 0 }, "DC resistance"},
		{"zero Le", func(p *Parameters) { p.Le = 0 }, "inductance"},
		{"NaN Bl", func(p *Parameters) { p.Bl = math.NaN() }, "force factor"},
		{"zero Sd", func(p *Parameters) { p.Sd = 0 }, "piston area"},
		{"zero Xmax", func(p *Parameters) { p.Xmax = 0 }, "max excursion"},
		{"negative volume", func(p *Parameters) { p.Volume = -1e-3 }, "volume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := reference65()
			tt.mod(&p)

			_, err := New(p)
			var cfg *acoustic.ConfigurationError
			if !errors.As(err, &cfg) {
				t.Fatalf("err = %v, want ConfigurationError", err)
			}

			if cfg.Field != tt.field {
				t.Fatalf("field = %q, want %q", cfg.Field, tt.field)
			}
		})
	}
}

func TestDerivedQuantities(t *testing.T) {
	p := reference65()
	d, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(d.Fs()-65) > 1e-9 {
		t.Errorf("Fs = %v, want 65", d.Fs())
	}

	ws := 2 * math.Pi * 65
	if want := ws * p.Mms / p.Rms; math.Abs(d.Qms()-want) > 1e-12 {
		t.Errorf("Qms = %v, want %v", d.Qms(), want)
	}

	if want := ws * p.Mms * p.Re / (p.Bl * p.Bl); math.Abs(d.Qes()-want) > 1e-12 {
		t.Errorf("Qes = %v, want %v", d.Qes(), want)
	}

	if got := 1/d.Qts() - 1/d.Qms() - 1/d.Qes(); math.Abs(got) > 1e-12 {
		t.Errorf("1/Qts != 1/Qms + 1/Qes (diff %v)", got)
	}

	m := acoustic.DefaultMedium()
	vas := d.Vas(m)
	if want := m.Density * m.SpeedOfSound * m.SpeedOfSound * p.Sd * p.Sd * p.Cms; math.Abs(vas-want) > 1e-15 {
		t.Errorf("Vas = %v, want %v", vas, want)
	}

	if got := d.Envelope(); math.Abs(got-2*p.Sd*p.Xmax) > 1e-18 {
		t.Errorf("Envelope = %v, want swept volume", got)
	}
}

func TestMechanicalImpedanceMinimumAtFs(t *testing.T) {
	d, err := New(reference65())
	if err != nil {
		t.Fatal(err)
	}

	zm := d.MechanicalImpedance(d.Fs())
	if math.Abs(imag(zm)) > 1e-9 {
		t.Fatalf("Im{Zm(Fs)} = %v, want 0", imag(zm))
	}

	if real(zm) != d.Parameters().Rms {
		t.Fatalf("Re{Zm} = %v, want Rms", real(zm))
	}
}

func TestElectricalImpedanceUnloaded(t *testing.T) {
	p := reference65()
	d, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	// At Fs with no load the motional impedance is purely Bl^2/Rms.
	ze := d.ElectricalImpedance(d.Fs(), 0)
	w := 2 * math.Pi * d.Fs()
	want := complex(p.Re+p.Bl*p.Bl/p.Rms, w*p.Le)
	if cmplx.Abs(ze-want) > 1e-9 {
		t.Fatalf("Ze(Fs) = %v, want %v", ze, want)
	}

	blocked := d.ElectricalImpedance(1000, cmplx.Inf())
	if cmplx.Abs(blocked-complex(p.Re, 2*math.Pi*1000*p.Le)) > 1e-12 {
		t.Fatalf("blocked Ze = %v", blocked)
	}
}

func TestDriveUsesComplexCurrent(t *testing.T) {
	p := reference65()
	d, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	zLoad := complex(3, 4)
	for _, f := range []float64{20, 65, 500, 5000, 20000} {
		op := d.Drive(f, 2.83, zLoad)

		// Terminal equation: V = (Re + jwLe) I + Bl v.
		w := 2 * math.Pi * f
		v := complex(p.Re, w*p.Le)*op.Current + complex(p.Bl, 0)*op.Velocity
		if cmplx.Abs(v-2.83) > 1e-9 {
			t.Fatalf("%g Hz: reconstructed voltage %v, want 2.83", f, v)
		}

		// Mechanical equation: Bl I = (Zm + Zl) v.
		lhs := complex(p.Bl, 0) * op.Current
		rhs := (d.MechanicalImpedance(f) + zLoad) * op.Velocity
		if cmplx.Abs(lhs-rhs) > 1e-9*cmplx.Abs(lhs) {
			t.Fatalf("%g Hz: force balance %v != %v", f, lhs, rhs)
		}

		// Electrical power equals the power dissipated in the network.
		pe := op.ElectricalPower(2.83)
		absI := cmplx.Abs(op.Current)
		absV := cmplx.Abs(op.Velocity)
		diss := p.Re*absI*absI + (p.Rms+real(zLoad))*absV*absV
		if math.Abs(pe-diss) > 1e-9*pe {
			t.Fatalf("%g Hz: Pe = %v, dissipated %v", f, pe, diss)
		}
	}
}

func TestSolveResonanceWithoutAirLoad(t *testing.T) {
	mass, compliance := 0.05, 3e-4

	r, err := SolveResonance(mass, compliance, nil)
	if err != nil {
		t.Fatal(err)
	}

	if r.Iterations != 1 {
		t.Fatalf("iterations = %d, want 1", r.Iterations)
	}

	want := 1 / (2 * math.Pi * math.Sqrt(mass*compliance))
	if r.Frequency != want {
		t.Fatalf("f = %v, want %v", r.Frequency, want)
	}

	zero := func(float64) (float64, error) { return 0, nil }
	r, err = SolveResonance(mass, compliance, zero)
	if err != nil || r.Iterations != 1 || r.Frequency != want {
		t.Fatalf("explicit zero radiation mass: %+v, %v", r, err)
	}
}

func TestSolveResonanceAcrossMasses(t *testing.T) {
	m := acoustic.DefaultMedium()
	area := 220e-4
	compliance := 2e-4
	airLoad := 2 * radiation.LowFrequencyMass(m, area)

	for _, mass := range []float64{0.008, 0.02, 0.045, 0.09, 0.2} {
		radMass := func(f float64) (float64, error) { return radiation.Mass(m, f, area) }

		r, err := SolveResonance(mass, compliance, radMass)
		if err != nil {
			t.Fatalf("mass %g: %v", mass, err)
		}

		if r.Iterations > DefaultMaxIterations {
			t.Fatalf("mass %g: %d iterations", mass, r.Iterations)
		}

		want := 1 / (2 * math.Pi * math.Sqrt((mass+airLoad)*compliance))
		if math.Abs(r.Frequency-want) > 0.5 {
			t.Fatalf("mass %g: f = %.3f Hz, want %.3f Hz", mass, r.Frequency, want)
		}
	}
}

func TestSolveResonanceBudgetExhausted(t *testing.T) {
	heavy := func(float64) (float64, error) { return 0.05, nil }

	_, err := SolveResonance(0.01, 2e-4, heavy, WithMaxIterations(1))
	if !errors.Is(err, ErrConvergence) {
		t.Fatalf("err = %v, want ErrConvergence", err)
	}

	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %T, want *ConvergenceError", err)
	}

	want := 1 / (2 * math.Pi * math.Sqrt(0.11*2e-4))
	if ce.Iterations != 1 || math.Abs(ce.Estimate-want) > 1e-9 {
		t.Fatalf("ConvergenceError = %+v, want estimate %v after 1 iteration", ce, want)
	}
}

func TestSolveResonancePropagatesRadiationError(t *testing.T) {
	boom := errors.New("boom")
	fail := func(float64) (float64, error) { return 0, boom }

	if _, err := SolveResonance(0.01, 2e-4, fail); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestLoadedResonanceScenario(t *testing.T) {
	p := reference65()
	d, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	m := acoustic.DefaultMedium()
	r, err := d.LoadedResonance(m)
	if err != nil {
		t.Fatal(err)
	}

	airLoad := 2 * radiation.LowFrequencyMass(m, p.Sd)
	want := 1 / (2 * math.Pi * math.Sqrt((p.Mms+airLoad)*p.Cms))
	if math.Abs(r.Frequency-want) > 0.5 {
		t.Fatalf("loaded resonance %.3f Hz, want %.3f Hz", r.Frequency, want)
	}

	if r.Frequency >= d.Fs() {
		t.Fatalf("air load must lower the resonance: %v >= %v", r.Frequency, d.Fs())
	}
}

func TestLoadedResonanceConcurrentMemo(t *testing.T) {
	d, err := New(reference65())
	if err != nil {
		t.Fatal(err)
	}

	m := acoustic.DefaultMedium()
	first, err := d.LoadedResonance(m)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := d.LoadedResonance(m)
			if err != nil || r != first {
				t.Errorf("memoized resonance = %+v, %v; want %+v", r, err, first)
			}
		}()
	}
	wg.Wait()
}
