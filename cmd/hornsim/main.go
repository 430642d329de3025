// Command hornsim evaluates a loudspeaker enclosure defined in a TOML file
// and prints its impedance, SPL, efficiency and excursion over frequency.
//
// Usage:
//
//	hornsim [flags] system.toml
//
// Examples:
//
//	hornsim testdata/bass-horn.toml
//	hornsim --points 50 --voltage 4 testdata/bass-horn.toml
//	hornsim --reference hornresp.txt testdata/bass-horn.toml
//	hornsim --watch testdata/bass-horn.toml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cwbudde/algo-horn/enclosure"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
	"github.com/cwbudde/algo-horn/measure/compare"
)

var version = "0.1.0"

// CLI defines the command-line interface. Zero-valued sweep flags fall back
// to the [sweep] table of the system file.
type CLI struct {
	File string `arg:"" type:"existingfile" help:"System definition (TOML)"`

	Start    float64 `help:"First frequency in Hz"`
	Stop     float64 `help:"Last frequency in Hz"`
	Points   int     `short:"n" help:"Number of log-spaced frequencies"`
	Voltage  float64 `help:"Drive voltage, V rms"`
	Distance float64 `help:"Observation distance in m"`
	Workers  int     `help:"Parallel workers (0 = all CPUs)"`

	Strict       bool   `help:"Abort on the first failing frequency"`
	Uncalibrated bool   `help:"Report raw SPL without the calibration offset"`
	Reference    string `type:"path" help:"Impedance curve to compare against (freq, |Z|, phase)"`
	Watch        bool   `short:"w" help:"Re-evaluate whenever the system file changes"`
	Verbose      bool   `short:"V" help:"Print solver and per-point diagnostics"`

	Version kong.VersionFlag `help:"Show version information"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("hornsim"),
		kong.Description("Loudspeaker enclosure frequency-response simulator"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	log := printer{w: os.Stderr, verbose: cli.Verbose}

	if !cli.Watch {
		if err := cli.run(os.Stdout, log); err != nil {
			log.fail(err)
			os.Exit(1)
		}

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watch(ctx, cli.File, log, func() error { return cli.run(os.Stdout, log) }); err != nil && !errors.Is(err, context.Canceled) {
		log.fail(err)
		os.Exit(1)
	}
}

// run loads the system file, sweeps it and writes the table to out.
func (c *CLI) run(out io.Writer, log printer) error {
	def, err := Load(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	sweep := c.merge(def.Sweep)

	sys, err := def.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	freqs, err := sweep.Grid()
	if err != nil {
		return err
	}

	log.title("%s (%s)", c.File, sys.Family())
	describe(log, sys)

	table := def.Table(sys.Family())
	if c.Uncalibrated {
		table = nil
	} else if e, ok := table.Entry(sys.Family()); ok && e.OffsetDB != 0 {
		log.info("Calibration", "%+.2f dB (%s, %s)", e.OffsetDB, e.Method, e.Source)
	}

	resp, err := enclosure.Sweep(sys, freqs,
		enclosure.WithStrict(sweep.Strict),
		enclosure.WithWorkers(c.Workers),
		enclosure.WithVoltage(sweep.Voltage),
		enclosure.WithDistance(sweep.Distance),
		enclosure.WithCalibration(table),
	)
	if err != nil {
		return err
	}

	if failed := resp.Failed(); len(failed) > 0 {
		log.warn("%d of %d frequencies failed", len(failed), resp.Len())
		for _, i := range failed {
			log.debug("Failed", "%v", resp.Errors[i])
		}
	}

	if err := printResponse(out, resp, sys.Driver().Parameters().Xmax); err != nil {
		return err
	}

	if c.Reference != "" {
		return c.compareReference(log, resp)
	}

	return nil
}

func (c *CLI) merge(s SweepDef) SweepDef {
	if c.Start > 0 {
		s.Start = c.Start
	}

	if c.Stop > 0 {
		s.Stop = c.Stop
	}

	if c.Points > 0 {
		s.Points = c.Points
	}

	if c.Voltage > 0 {
		s.Voltage = c.Voltage
	}

	if c.Distance > 0 {
		s.Distance = c.Distance
	}

	s.Strict = s.Strict || c.Strict

	return s
}

func (c *CLI) compareReference(log printer, resp *enclosure.Response) error {
	refF, refZ, err := readReference(c.Reference)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Reference, err)
	}

	dev, err := compare.Impedance(resp.Frequencies, resp.Impedance, refF, refZ, compare.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", c.Reference, err)
	}

	log.info("Reference", "%d points, |Z| within %.2f %%, phase within %.1f deg, rms %.2f dB (worst at %.4g Hz)",
		dev.Points, 100*dev.MaxMagnitudeError, dev.MaxPhaseError, dev.RMSdB, dev.WorstFrequency)

	return nil
}

func describe(log printer, sys enclosure.System) {
	d := sys.Describe()
	drv := sys.Driver()

	log.info("Driver", "Fs %.1f Hz, Qts %.3f, Vas %.1f L", drv.Fs(), drv.Qts(), 1e3*drv.Vas(d.Medium))

	if res, err := drv.LoadedResonance(d.Medium); err != nil {
		log.warn("loaded resonance: %v", err)
	} else {
		log.debug("Resonance", "%.2f Hz with air load, %d iterations", res.Frequency, res.Iterations)
	}

	for i, s := range d.Segments {
		log.info(fmt.Sprintf("Segment %d", i), "%s, %.1f -> %.1f cm^2, %.3f m, cutoff %.1f Hz",
			s.Profile, 1e4*s.ThroatArea, 1e4*s.MouthArea, s.Length, s.Cutoff)
	}

	for _, ch := range d.Chambers {
		if ch.Volume > 0 {
			log.info(string(ch.Role)+" chamber", "%.2f L", 1e3*ch.Volume)
		}
	}

	if d.Vent != nil {
		log.info("Vent", "%.1f cm^2 x %.3f m", 1e4*d.Vent.Area, d.Vent.Length)
	}

	if p, ok := sys.(*enclosure.Ported); ok {
		log.info("Tuning", "%.1f Hz", p.TuningFrequency())
	}

	if h, ok := sys.(*enclosure.FrontLoadedHorn); ok && log.verbose {
		if cut, err := h.Chain().MatrixCutoffs(d.Medium); err == nil {
			for i, f := range cut {
				log.debug(fmt.Sprintf("Segment %d", i), "matrix cutoff %.1f Hz", f)
			}
		}
	}

	if d.Family == calibration.FrontLoadedHorn && len(d.Chambers) > 1 && d.Chambers[1].Volume == 0 {
		log.debug("Rear", "open, rear radiation not counted")
	}
}
