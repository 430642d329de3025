package enclosure

import (
	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/chamber"
	"github.com/cwbudde/algo-horn/acoustic/driver"
	"github.com/cwbudde/algo-horn/acoustic/radiation"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

// InfiniteBaffle mounts the driver in an unbounded wall: both faces see the
// baffled-piston radiation impedance and the front face radiates.
type InfiniteBaffle struct {
	*engine
}

// NewInfiniteBaffle returns an infinite-baffle system.
func NewInfiniteBaffle(drv *driver.Driver, opts ...Option) (*InfiniteBaffle, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &InfiniteBaffle{}
	if s.engine, err = newEngine(calibration.InfiniteBaffle, drv, cfg, s); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *InfiniteBaffle) faces(freq float64) (faces, error) {
	zRad, err := radiation.Impedance(s.medium, freq, s.drv.Parameters().Sd)
	if err != nil {
		return faces{}, err
	}

	return faces{front: zRad, rear: zRad, radiate: directRadiator(zRad)}, nil
}

// Describe returns the system geometry.
func (s *InfiniteBaffle) Describe() Description {
	return describe(s.engine)
}

// Sealed mounts the driver on a closed box.
type Sealed struct {
	*engine
	box chamber.Chamber
}

// NewSealed returns a closed-box system. The box must have a volume of at
// least the driver envelope.
func NewSealed(drv *driver.Driver, box chamber.Chamber, opts ...Option) (*Sealed, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &Sealed{box: box}
	if s.engine, err = newEngine(calibration.Sealed, drv, cfg, s); err != nil {
		return nil, err
	}

	if box.IsOpen() {
		return nil, &acoustic.ConfigurationError{Component: "sealed box", Field: "volume", Value: 0, Reason: "must be positive"}
	}

	if err := checkVolume("sealed box", box, drv.Envelope()); err != nil {
		return nil, err
	}

	return s, nil
}

// Box returns the enclosure chamber.
func (s *Sealed) Box() chamber.Chamber { return s.box }

func (s *Sealed) faces(freq float64) (faces, error) {
	zRad, err := radiation.Impedance(s.medium, freq, s.drv.Parameters().Sd)
	if err != nil {
		return faces{}, err
	}

	return faces{front: zRad, rear: s.box.Impedance(s.medium, freq), radiate: directRadiator(zRad)}, nil
}

// Describe returns the system geometry.
func (s *Sealed) Describe() Description {
	d := describe(s.engine)
	d.Chambers = []ChamberInfo{chamberInfo(RearChamber, s.box)}

	return d
}

// directRadiator returns the power radiated by a diaphragm into zRad:
// Re{p * conj(U)} with p = zRad*U.
func directRadiator(zRad complex128) func(complex128) (float64, complex128) {
	return func(ud complex128) (float64, complex128) {
		return acoustic.Power(zRad*ud, ud), ud
	}
}
