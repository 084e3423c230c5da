package drive

import (
	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/geom"
)

// Differential commands Motors in the units the maneuvers work with.
type Differential struct {
	Motors   Motors
	Geometry Geometry
}

// NewDifferential creates a Differential.
func NewDifferential(m Motors, g Geometry) *Differential {
	return &Differential{Motors: m, Geometry: g}
}

// DrivePct drives in velocity mode, scaling both sides down together so
// neither exceeds 100%.
func (d *Differential) DrivePct(left, right float64) error {
	f := geom.ScaleFactor(100, left, right)
	return d.Motors.SetVelocity(left*f, right*f)
}

// DriveVoltage converts percents into volts, scales both sides so neither
// exceeds MaxVoltage, then clamps to ±clamp.
func (d *Differential) DriveVoltage(leftPct, rightPct, clamp float64) error {
	left, right := PctToVolt(leftPct), PctToVolt(rightPct)
	f := geom.ScaleFactor(MaxVoltage, left, right)
	left, right = geom.Clamp(left*f, -clamp, clamp), geom.Clamp(right*f, -clamp, clamp)
	return d.Motors.SetVoltage(left, right)
}

// DriveLinegular drives at linearPct forward while turning counter-clockwise
// at angular radians per second.
func (d *Differential) DriveLinegular(linearPct, angular float64) error {
	rot := angular * d.Geometry.HalfTrack() / d.Geometry.TileLength * d.Geometry.TilesPerSecondToPct()
	return d.DrivePct(linearPct-rot, linearPct+rot)
}

// Stop stops both sides.
func (d *Differential) Stop(mode BrakeMode) error {
	if glog.V(4) {
		glog.Infof("drive: stop (%s)", mode)
	}
	return d.Motors.Stop(mode)
}
