// Package interp resamples tabulated frequency curves onto another grid.
//
// Curves are interpolated against log frequency, which is how loudspeaker
// data is usually tabulated and plotted:
//
//   - [Linear]:  straight line between the two neighbours
//   - [Hermite]: 4-point cubic Hermite, for grids that are uniform in log f
//
// Phase curves must be unwrapped with [Unwrap] before interpolation.
package interp
