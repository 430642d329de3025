package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-horn/enclosure"
)

// printResponse writes one row per frequency. Failed points are shown as
// "-" and points beyond xmax are flagged with "!".
func printResponse(w io.Writer, resp *enclosure.Response, xmax float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintln(tw, "Freq [Hz]\t|Z| [ohm]\tPhase [deg]\tSPL [dB]\tEff [%]\tExcursion [mm]\t\t"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	mag := resp.ImpedanceMagnitude()
	phase := resp.ImpedancePhase()
	ratio := resp.ExcursionRatio(xmax)

	for i, f := range resp.Frequencies {
		if resp.Errors[i] != nil {
			if _, err := fmt.Fprintf(tw, "%.2f\t-\t-\t-\t-\t-\t\t\n", f); err != nil {
				return fmt.Errorf("write row: %w", err)
			}

			continue
		}

		flag := ""
		if ratio[i] > 1 {
			flag = "!"
		}

		if _, err := fmt.Fprintf(tw, "%.2f\t%.2f\t%.1f\t%s\t%.3f\t%.3f\t%s\t\n",
			f, mag[i], phase[i], level(resp.SPL[i]), 100*resp.Efficiency[i], 1e3*resp.Displacement[i], flag); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func level(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf"
	}

	return fmt.Sprintf("%.1f", db)
}
