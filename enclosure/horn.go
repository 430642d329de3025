package enclosure

import (
	"fmt"

	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/chamber"
	"github.com/cwbudde/algo-horn/acoustic/driver"
	"github.com/cwbudde/algo-horn/acoustic/horn"
	"github.com/cwbudde/algo-horn/acoustic/radiation"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

// FrontLoadedHorn couples the front of the diaphragm to a horn through an
// optional throat chamber and closes the rear with an optional chamber.
//
// The throat chamber is a compliance shunting the path from the diaphragm
// to the horn throat. Without a rear chamber the rear face radiates freely
// into the baffle, and only the mouth output is counted.
type FrontLoadedHorn struct {
	*engine
	chain  *horn.Chain
	throat chamber.Chamber
	rear   chamber.Chamber
}

// NewFrontLoadedHorn validates and returns a horn system. A zero chamber
// means the chamber is absent.
//
// The throat chamber must not be wider than the horn throat and must be
// able to hold the diaphragm's swept volume; the rear chamber must hold
// the driver envelope.
func NewFrontLoadedHorn(drv *driver.Driver, chain *horn.Chain, throat, rear chamber.Chamber, opts ...Option) (*FrontLoadedHorn, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &FrontLoadedHorn{chain: chain, throat: throat, rear: rear}
	if s.engine, err = newEngine(calibration.FrontLoadedHorn, drv, cfg, s); err != nil {
		return nil, err
	}

	if chain == nil {
		return nil, &acoustic.ConfigurationError{Component: "front-loaded horn", Reason: "horn chain is nil"}
	}

	if err := checkVolume("throat chamber", throat, 2*drv.Vd()); err != nil {
		return nil, err
	}

	if throat.Area > chain.ThroatArea() {
		return nil, &acoustic.ConfigurationError{
			Component: "throat chamber", Field: "area", Value: throat.Area,
			Reason: fmt.Sprintf("exceeds the horn throat area %g m^2", chain.ThroatArea()),
		}
	}

	if err := checkVolume("rear chamber", rear, drv.Envelope()); err != nil {
		return nil, err
	}

	return s, nil
}

// Chain returns the horn.
func (s *FrontLoadedHorn) Chain() *horn.Chain { return s.chain }

// ThroatChamber returns the throat chamber; its volume is 0 when absent.
func (s *FrontLoadedHorn) ThroatChamber() chamber.Chamber { return s.throat }

// RearChamber returns the rear chamber; its volume is 0 when absent.
func (s *FrontLoadedHorn) RearChamber() chamber.Chamber { return s.rear }

// Profile samples the horn contour without any frequency evaluation.
func (s *FrontLoadedHorn) Profile(n int) ([]horn.ProfilePoint, error) {
	return s.chain.Profile(n)
}

func (s *FrontLoadedHorn) faces(freq float64) (faces, error) {
	t, err := s.chain.TransferMatrix(s.medium, freq)
	if err != nil {
		return faces{}, err
	}

	zMouth, err := s.chain.MouthImpedance(s.medium, freq)
	if err != nil {
		return faces{}, err
	}

	zThroat := t.Load(zMouth)
	zFront := acoustic.Parallel(zThroat, s.throat.Impedance(s.medium, freq))

	var zRear complex128
	if s.rear.IsOpen() {
		zRear, err = radiation.Impedance(s.medium, freq, s.drv.Parameters().Sd)
		if err != nil {
			return faces{}, err
		}
	} else {
		zRear = s.rear.Impedance(s.medium, freq)
	}

	back := t.Inverse()
	radiate := func(ud complex128) (float64, complex128) {
		pThroat := zFront * ud
		pMouth, uMouth := back.Apply(pThroat, pThroat/zThroat)

		return acoustic.Power(pMouth, uMouth), uMouth
	}

	return faces{front: zFront, rear: zRear, radiate: radiate}, nil
}

// Describe returns the system geometry including every segment.
func (s *FrontLoadedHorn) Describe() Description {
	d := describe(s.engine)
	d.Segments = describeChain(s.medium, s.chain)
	d.Chambers = []ChamberInfo{chamberInfo(ThroatChamber, s.throat), chamberInfo(RearChamber, s.rear)}

	return d
}
