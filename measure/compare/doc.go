// Package compare measures how far a simulated curve departs from a
// reference curve, typically one exported from another loudspeaker
// simulator or a measurement.
//
// The reference is resampled onto the simulated frequency grid against log
// frequency: magnitude linearly, phase after unwrapping. Only frequencies
// inside the configured band and inside the reference span are compared.
//
//	dev, err := compare.Impedance(resp.Frequencies, resp.Impedance, refF, refZ, compare.Config{})
//	fmt.Printf("max %.1f %%, %.1f deg\n", 100*dev.MaxMagnitudeError, dev.MaxPhaseError)
package compare
