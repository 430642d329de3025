// Package acoustic holds the shared vocabulary of the enclosure engine:
// the propagation medium, the complex 2x2 two-port matrix that relates
// (pressure, volume velocity) at two reference planes, level conversions
// and the error types reported by every component.
//
// All phasors are RMS. Acoustic impedances are expressed in Pa*s/m^3,
// mechanical impedances in N*s/m and areas in m^2.
//
// # Two-port convention
//
// A [Matrix] maps the state at the far (mouth-side) plane to the state at
// the near (throat-side) plane:
//
//	[p1]   [A B] [p2]
//	[U1] = [C D] [U2]
//
// so cascading networks in throat-to-mouth order is a left-to-right
// product, and the impedance seen at the near plane for a load Z2 is
//
//	Z1 = (A*Z2 + B) / (C*Z2 + D)
package acoustic
