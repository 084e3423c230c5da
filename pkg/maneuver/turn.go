package maneuver

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/control"
	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/geom"
)

// TurnToAngle turns in place until the robot faces Target.
type TurnToAngle struct {
	// Target is a field angle in degrees.
	Target float64
	// MaxPct limits wheel speed, 0 for the configured default.
	MaxPct float64
	// CenterOffset moves the center of rotation towards the right wheel,
	// in inches.
	CenterOffset float64
	Limit        time.Duration

	volt, velocity *control.PID
	patience       *control.Patience

	maxPct                  float64
	useVolt                 bool
	voltClamp               float64
	leftFactor, rightFactor float64
	remaining               float64
}

// Begin implements Maneuver.
func (t *TurnToAngle) Begin(env *Env) {
	resetDrift(env)
	conf := env.config().Turn
	t.volt = control.NewPID(conf.Volt, env.clock())
	t.velocity = control.NewPID(conf.Velocity, env.clock())
	t.patience = control.NewPatience(conf.Patience)
	t.maxPct = t.MaxPct
	if t.maxPct <= 0 {
		t.maxPct = conf.MaxPct
	}
	t.useVolt = t.maxPct > conf.VoltAbovePct
	t.voltClamp = conf.VoltClamp

	half := env.Drive.Geometry.HalfTrack()
	left, right := half+t.CenterOffset, half-t.CenterOffset
	avg := (left + right) / 2
	t.leftFactor, t.rightFactor = left/avg, -right/avg
	t.remaining = math.Abs(env.fieldHeadingError(t.Target))
}

// Tick implements Maneuver.
func (t *TurnToAngle) Tick(env *Env, elapsed time.Duration) (Reason, error) {
	if t.volt.IsSettled() {
		return Settled, nil
	}
	if t.patience.IsExhausted() {
		return Exhausted, nil
	}

	err := env.fieldHeadingError(t.Target)
	t.remaining = math.Abs(err)
	t.volt.Compute(err)
	t.velocity.Compute(err)
	t.patience.Observe(t.remaining)

	pid := t.velocity
	if t.useVolt {
		pid = t.volt
	}
	left, right := t.leftFactor*pid.Value(), t.rightFactor*pid.Value()
	f := geom.ScaleFactor(t.maxPct, left, right)
	left, right = left*f, right*f
	if glog.V(4) {
		glog.Infof("turn: err=%.2f l=%.1f r=%.1f", err, left, right)
	}
	if t.useVolt {
		return Running, env.Drive.DriveVoltage(left, right, t.voltClamp)
	}
	return Running, env.Drive.DrivePct(left, right)
}

// End implements Maneuver.
func (t *TurnToAngle) End(env *Env, reason Reason) error {
	return stopAndCorrect(env, drive.Brake)
}

// Timeout implements Maneuver.
func (t *TurnToAngle) Timeout() time.Duration {
	return t.Limit
}

// Remaining implements Maneuver, in degrees.
func (t *TurnToAngle) Remaining() float64 {
	return t.remaining
}

// TurnToFace turns in place until the robot faces a point, or faces away
// from it when Reverse is set.
type TurnToFace struct {
	X, Y    float64
	Reverse bool
	MaxPct  float64
	Limit   time.Duration

	TurnToAngle
}

// Begin implements Maneuver.
func (t *TurnToFace) Begin(env *Env) {
	pose := env.Pose.Pose()
	// the equivalent angle closest to the current heading.
	current := pose.FieldHeading()
	target := current + geom.NormalizeDegrees(FacingAngle(pose, t.X, t.Y, t.Reverse)-current)
	t.TurnToAngle = TurnToAngle{Target: target, MaxPct: t.MaxPct, Limit: t.Limit}
	t.TurnToAngle.Begin(env)
}

// Timeout implements Maneuver.
func (t *TurnToFace) Timeout() time.Duration {
	return t.Limit
}

// FacingAngle returns the field angle from pose towards (x, y), or away
// from it when reverse.
func FacingAngle(pose geom.Pose, x, y float64, reverse bool) float64 {
	angle := geom.SwapFieldPolar(geom.ToDegrees(math.Atan2(y-pose.Y, x-pose.X)))
	if reverse {
		angle += 180
	}
	return angle
}

func resetDrift(env *Env) {
	if env.Corrector != nil {
		env.Corrector.ResetHeadingDrift()
	}
}

func stopAndCorrect(env *Env, mode drive.BrakeMode) error {
	err := env.Drive.Stop(mode)
	if env.Corrector != nil {
		env.Corrector.CorrectHeading()
	}
	return err
}
