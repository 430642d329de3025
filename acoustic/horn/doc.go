// Package horn provides transfer matrices for horn segments and ordered
// chains of segments.
//
// Four flare profiles are supported: [Uniform], [Exponential], [Conical]
// and [Hyperbolic] (Salmon's hypex family). A [Segment] is a closed variant:
// only the constructors in this package produce one, each concrete type
// carries its own shape parameters, and every profile answers the same
// [Segment.TransferMatrix] call.
//
// All four profiles share the property that the normalized radius
// w(x) = sqrt(S(x)/S(0)) satisfies w''/w = const, which makes Webster's
// horn equation exactly solvable. With g^2 = k^2 - w''/w the lossless
// segment matrix is
//
//	A = wL cos(gL) - wL' sin(gL)/g
//	B = j k Z1 sin(gL) / (g wL)
//	C = j/(k Z1) [ (cos(gL) + w0' sin(gL)/g) wL' - wL (w0' cos(gL) - g sin(gL)) ]
//	D = (cos(gL) + w0' sin(gL)/g) / wL
//
// where Z1 = rho*c/S(0), w0' = w'(0), wL = w(L) and wL' = w'(L). Below the
// flare cutoff g is imaginary and the trigonometric terms become
// hyperbolic. Every profile reduces to the uniform duct when the flare
// vanishes, and AD - BC = 1 for every profile.
//
// A [Chain] cascades segments strictly from throat to mouth; the order is
// fixed at construction and cannot be reversed by callers.
package horn
