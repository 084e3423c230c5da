package drive

import (
	"math"
)

// MaxVoltage is the motor supply voltage.
const MaxVoltage = 12.0

// Geometry describes the drivetrain. Lengths are in inches.
type Geometry struct {
	TrackWidth    float64 `yaml:"track_width"`
	WheelDiameter float64 `yaml:"wheel_diameter"`
	// GearRatio is motor revolutions per wheel revolution.
	GearRatio             float64 `yaml:"gear_ratio"`
	TrackingWheelDiameter float64 `yaml:"tracking_wheel_diameter"`
	MotorRPM              float64 `yaml:"motor_rpm"`
	TileLength            float64 `yaml:"tile_length"`
}

// DefaultGeometry returns the geometry of the reference robot.
func DefaultGeometry() Geometry {
	return Geometry{
		TrackWidth:            13.5,
		WheelDiameter:         4,
		GearRatio:             84.0 / 60.0,
		TrackingWheelDiameter: 2,
		MotorRPM:              600,
		TileLength:            23.6,
	}
}

// HalfTrack is the distance from the center to either wheel.
func (g Geometry) HalfTrack() float64 {
	return g.TrackWidth / 2
}

// WheelCircumference returns the drive wheel circumference.
func (g Geometry) WheelCircumference() float64 {
	return math.Pi * g.WheelDiameter
}

// MaxWheelSpeed is the wheel surface speed at 100%, in inches per second.
func (g Geometry) MaxWheelSpeed() float64 {
	return g.MotorRPM / 60 / g.GearRatio * g.WheelCircumference()
}

// TilesPerSecondToPct converts a speed in tiles per second into motor
// velocity percent.
func (g Geometry) TilesPerSecondToPct() float64 {
	return g.TileLength / g.WheelCircumference() * 60 * g.GearRatio / g.MotorRPM * 100
}

// PctToVolt converts a percent of full power into volts.
func PctToVolt(pct float64) float64 {
	return pct * MaxVoltage / 100
}
