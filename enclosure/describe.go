package enclosure

import (
	"github.com/cwbudde/algo-horn/acoustic"
	"github.com/cwbudde/algo-horn/acoustic/chamber"
	"github.com/cwbudde/algo-horn/acoustic/driver"
	"github.com/cwbudde/algo-horn/acoustic/horn"
	"github.com/cwbudde/algo-horn/enclosure/calibration"
)

// ChamberRole tells where a chamber sits in the network.
type ChamberRole string

const (
	ThroatChamber ChamberRole = "throat"
	RearChamber   ChamberRole = "rear"
)

// Description lists every geometric and driver quantity of a system, enough
// for an external exporter to reproduce the definition in another tool.
type Description struct {
	Family   calibration.Family
	Medium   acoustic.Medium
	Driver   driver.Parameters
	Segments []SegmentInfo // throat first
	Chambers []ChamberInfo
	Vent     *Vent
}

// SegmentInfo is the geometry of one horn segment.
type SegmentInfo struct {
	Profile    horn.Profile
	ThroatArea float64 // m^2
	MouthArea  float64 // m^2
	Length     float64 // m
	FlareRate  float64 // 1/m
	Shape      float64 // hyperbolic T
	Volume     float64 // m^3
	Cutoff     float64 // Hz, closed form
}

// ChamberInfo is the geometry of one chamber.
type ChamberInfo struct {
	Role   ChamberRole
	Volume float64 // m^3
	Area   float64 // m^2
	Length float64 // m
}

func describe(e *engine) Description {
	return Description{Family: e.family, Medium: e.medium, Driver: e.drv.Parameters()}
}

func describeChain(m acoustic.Medium, c *horn.Chain) []SegmentInfo {
	out := make([]SegmentInfo, c.Len())
	for i, s := range c.Segments() {
		out[i] = SegmentInfo{
			Profile:    s.Profile(),
			ThroatArea: s.ThroatArea(),
			MouthArea:  s.MouthArea(),
			Length:     s.Length(),
			FlareRate:  s.FlareRate(),
			Shape:      s.Shape(),
			Volume:     s.Volume(),
			Cutoff:     horn.Cutoff(m, s),
		}
	}

	return out
}

func chamberInfo(role ChamberRole, c chamber.Chamber) ChamberInfo {
	return ChamberInfo{Role: role, Volume: c.Volume, Area: c.Area, Length: c.Length()}
}
