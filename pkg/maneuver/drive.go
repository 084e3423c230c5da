package maneuver

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/control"
	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/geom"
)

// DriveDistance drives straight along the starting heading while steering
// towards Heading.
type DriveDistance struct {
	// Distance in tiles, negative to back up.
	Distance float64
	// Heading is the field angle to hold, ignored with KeepHeading.
	Heading float64
	// KeepHeading holds the heading at the start.
	KeepHeading bool
	MaxPct      float64
	MaxTurnPct  float64
	Limit       time.Duration

	distance, heading *control.PID
	patience          *control.Patience

	conf      DriveConfig
	start     geom.Pose
	target    float64
	tile      float64
	remaining float64
}

// DriveStraight drives distance tiles holding the current heading.
func DriveStraight(distance float64) *DriveDistance {
	return &DriveDistance{Distance: distance, KeepHeading: true}
}

// Begin implements Maneuver.
func (d *DriveDistance) Begin(env *Env) {
	resetDrift(env)
	d.conf = env.config().Drive
	if d.MaxPct > 0 {
		d.conf.MaxPct = d.MaxPct
	}
	if d.MaxTurnPct > 0 {
		d.conf.MaxTurnPct = d.MaxTurnPct
	}
	d.distance = control.NewPID(d.conf.Distance, env.clock())
	d.heading = control.NewPID(d.conf.Heading, env.clock())
	d.patience = control.NewPatience(d.conf.Patience)

	d.start = env.Pose.Pose()
	d.target = d.Heading
	if d.KeepHeading {
		d.target = d.start.FieldHeading()
	}
	d.tile = env.Drive.Geometry.TileLength
	d.remaining = math.Abs(d.Distance)
}

// travel is the signed distance in inches covered along the start heading.
func (d *DriveDistance) travel(pose geom.Pose) float64 {
	moved := pose.Sub(d.start)
	h := d.start.HeadingRadians()
	return (moved.X*math.Cos(h) + moved.Y*math.Sin(h)) * d.tile
}

// Tick implements Maneuver.
func (d *DriveDistance) Tick(env *Env, elapsed time.Duration) (Reason, error) {
	if d.distance.IsSettled() && d.heading.IsSettled() {
		return Settled, nil
	}
	if d.patience.IsExhausted() {
		return Exhausted, nil
	}

	pose := env.Pose.Pose()
	err := d.Distance*d.tile - d.travel(pose)
	d.remaining = math.Abs(err) / d.tile
	d.distance.Compute(err)
	d.patience.Observe(math.Abs(err))
	v := geom.Clamp(d.distance.Value(), -d.conf.MaxPct, d.conf.MaxPct)

	headingErr := env.fieldHeadingError(d.target)
	d.heading.Compute(headingErr)
	r := geom.Clamp(d.heading.Value(), -d.conf.MaxTurnPct, d.conf.MaxTurnPct)

	if glog.V(4) {
		glog.Infof("drive: err=%.2fin heading err=%.2f v=%.1f r=%.1f", err, headingErr, v, r)
	}
	// a positive field angle error is clockwise.
	return Running, env.Drive.DriveVoltage(v+r, v-r, d.conf.VoltClamp)
}

// End implements Maneuver.
func (d *DriveDistance) End(env *Env, reason Reason) error {
	return stopAndCorrect(env, drive.Coast)
}

// Timeout implements Maneuver.
func (d *DriveDistance) Timeout() time.Duration {
	return d.Limit
}

// Remaining implements Maneuver, in tiles.
func (d *DriveDistance) Remaining() float64 {
	return d.remaining
}
