package acoustic

import "math"

// Air properties at 20 degrees C and 101.325 kPa.
const (
	DefaultDensity      = 1.205  // kg/m^3
	DefaultSpeedOfSound = 343.68 // m/s

	// ReferencePressure is the 0 dB SPL reference (20 uPa rms).
	ReferencePressure = 20e-6
)

// Medium describes the fluid the enclosure radiates into.
// The zero value is not usable; start from [DefaultMedium].
type Medium struct {
	Density      float64 // kg/m^3
	SpeedOfSound float64 // m/s
}

// DefaultMedium returns air at 20 degrees C.
func DefaultMedium() Medium {
	return Medium{Density: DefaultDensity, SpeedOfSound: DefaultSpeedOfSound}
}

// Validate reports whether the medium is physically meaningful.
func (m Medium) Validate() error {
	if !(m.Density > 0) || math.IsInf(m.Density, 0) {
		return &ConfigurationError{Component: "medium", Field: "density", Value: m.Density, Reason: "must be positive and finite"}
	}

	if !(m.SpeedOfSound > 0) || math.IsInf(m.SpeedOfSound, 0) {
		return &ConfigurationError{Component: "medium", Field: "speed of sound", Value: m.SpeedOfSound, Reason: "must be positive and finite"}
	}

	return nil
}

// CharacteristicImpedance returns rho*c, the specific acoustic impedance
// of a plane wave (Pa*s/m).
func (m Medium) CharacteristicImpedance() float64 {
	return m.Density * m.SpeedOfSound
}

// DuctImpedance returns rho*c/S, the acoustic characteristic impedance of
// a duct of cross-section area (Pa*s/m^3).
func (m Medium) DuctImpedance(area float64) float64 {
	return m.Density * m.SpeedOfSound / area
}

// Wavenumber returns k = 2*pi*f/c in rad/m.
func (m Medium) Wavenumber(freq float64) float64 {
	return 2 * math.Pi * freq / m.SpeedOfSound
}

// Compliance returns the acoustic compliance V/(rho*c^2) of an enclosed
// volume in m^5/N.
func (m Medium) Compliance(volume float64) float64 {
	return volume / (m.Density * m.SpeedOfSound * m.SpeedOfSound)
}

// AngularFrequency returns 2*pi*f.
func AngularFrequency(freq float64) float64 {
	return 2 * math.Pi * freq
}
