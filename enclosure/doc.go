// Package enclosure couples a driver to its acoustic load and evaluates
// impedance, sound pressure level and efficiency in the frequency domain.
//
// Four systems are provided: [InfiniteBaffle], [Sealed], [Ported] and
// [FrontLoadedHorn]. Each one reduces its acoustic network at a frequency
// to the impedances loading the two faces of the diaphragm, reflects them
// through the driver's force factor into the electrical impedance, and
// drives the network from one complex voice-coil current. Radiated power is
// always Re{p * conj(U)} taken at a single reference plane (the horn mouth
// or the radiating surfaces themselves), converted to a half-space far-field
// pressure and then to dB SPL.
//
// Systems are immutable once built and safe for concurrent use. [Sweep]
// evaluates a frequency grid in parallel and returns parallel arrays; a
// point that cannot be computed is NaN in every array and carries its error
// unless strict mode is requested.
//
// Calibration offsets from package calibration are applied in exactly one
// place, after the SPL conversion, and the uncalibrated level is always
// returned alongside.
package enclosure
