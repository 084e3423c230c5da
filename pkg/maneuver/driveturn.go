package maneuver

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/control"
	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/geom"
)

// DriveTurnToFace drives to a point, steering towards it on the way.
// The distance is measured from where the maneuver starts.
type DriveTurnToFace struct {
	X, Y float64
	// Reverse drives backwards into the point.
	Reverse    bool
	MaxPct     float64
	MaxTurnPct float64
	Limit      time.Duration

	distance, heading *control.PID
	patience          *control.Patience

	conf      DriveTurnConfig
	start     geom.Pose
	total     float64
	aim       float64
	remaining float64
}

// Begin implements Maneuver.
func (d *DriveTurnToFace) Begin(env *Env) {
	resetDrift(env)
	d.conf = env.config().DriveTurn
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
	d.total = math.Hypot(d.X-d.start.X, d.Y-d.start.Y)
	d.aim = d.aimFrom(d.start)
	d.remaining = d.total
}

// aimFrom returns the polar heading pointing the robot's front (or back
// when reversing) at the target.
func (d *DriveTurnToFace) aimFrom(pose geom.Pose) float64 {
	aim := geom.ToDegrees(math.Atan2(d.Y-pose.Y, d.X-pose.X))
	if d.Reverse {
		aim += 180
	}
	return aim
}

// Tick implements Maneuver.
func (d *DriveTurnToFace) Tick(env *Env, elapsed time.Duration) (Reason, error) {
	if d.distance.IsSettled() && d.heading.IsSettled() {
		return Settled, nil
	}
	if d.patience.IsExhausted() {
		return Exhausted, nil
	}

	pose := env.Pose.Pose()
	err := d.total - math.Hypot(pose.X-d.start.X, pose.Y-d.start.Y)
	d.remaining = err
	d.distance.Compute(err)
	d.patience.Observe(math.Abs(err))
	v := geom.Clamp(d.distance.Value(), -d.conf.MaxPct, d.conf.MaxPct)
	if d.Reverse {
		v = -v
	}

	// close to the point the bearing swings wildly; hold the last aim.
	if err > d.conf.AimDistance {
		d.aim = d.aimFrom(pose)
	}
	headingErr := geom.NormalizeDegrees(d.aim - pose.Heading)
	d.heading.Compute(headingErr)
	r := geom.Clamp(d.heading.Value(), -d.conf.MaxTurnPct, d.conf.MaxTurnPct)

	if glog.V(4) {
		glog.Infof("driveturn: err=%.3f aim=%.1f heading err=%.2f v=%.1f r=%.1f", err, d.aim, headingErr, v, r)
	}
	// a positive polar error is counter-clockwise.
	return Running, env.Drive.DriveVoltage(v-r, v+r, d.conf.VoltClamp)
}

// End implements Maneuver.
func (d *DriveTurnToFace) End(env *Env, reason Reason) error {
	d.remaining = 0
	return stopAndCorrect(env, drive.Coast)
}

// Timeout implements Maneuver.
func (d *DriveTurnToFace) Timeout() time.Duration {
	return d.Limit
}

// Remaining implements Maneuver, in tiles.
func (d *DriveTurnToFace) Remaining() float64 {
	return d.remaining
}
