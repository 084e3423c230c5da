// Package sim simulates a differential drivetrain so the motion stack can
// run without hardware.
package sim

import (
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/drive"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/geom"
	"github.com/robotalks/motion.go/pkg/odometry"
)

// Drivetrain is a kinematic differential drive. It implements drive.Motors
// and exposes the sensors the odometry reads. Lengths are in inches.
type Drivetrain struct {
	Geometry drive.Geometry

	lock        sync.Mutex
	left, right ramp
	// motor revolutions
	leftRevs, rightRevs float64
	pose                geom.Pose
	last                time.Time
	mode                string

	gyro *Gyro
}

// NewDrivetrain creates a Drivetrain at the origin facing +Y whose wheels
// change speed at most by accel inches per second squared (0 for instant).
func NewDrivetrain(g drive.Geometry, accel float64) *Drivetrain {
	return &Drivetrain{
		Geometry: g,
		left:     ramp{accel: accel},
		right:    ramp{accel: accel},
		pose:     geom.Pose{Heading: 90},
		gyro:     &Gyro{},
	}
}

func (d *Drivetrain) setSpeeds(mode string, left, right float64) {
	max := d.Geometry.MaxWheelSpeed()
	d.lock.Lock()
	d.mode = mode
	d.left.desired = geom.Clamp(left, -1, 1) * max
	d.right.desired = geom.Clamp(right, -1, 1) * max
	d.lock.Unlock()
}

// SetVoltage implements drive.Motors. Speed is proportional to voltage.
func (d *Drivetrain) SetVoltage(left, right float64) error {
	d.setSpeeds("voltage", left/drive.MaxVoltage, right/drive.MaxVoltage)
	return nil
}

// SetVelocity implements drive.Motors.
func (d *Drivetrain) SetVelocity(leftPct, rightPct float64) error {
	d.setSpeeds("velocity", leftPct/100, rightPct/100)
	return nil
}

// Stop implements drive.Motors. Coasting ramps down, braking stops at once.
func (d *Drivetrain) Stop(mode drive.BrakeMode) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.mode = mode.String()
	d.left.desired, d.right.desired = 0, 0
	if mode != drive.Coast {
		d.left.speed, d.right.speed = 0, 0
	}
	return nil
}

// Step integrates the motion since the previous Step.
func (d *Drivetrain) Step(now time.Time) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.last.IsZero() {
		d.last = now
		return
	}
	secs := now.Sub(d.last).Seconds()
	d.last = now
	dl, dr := d.left.advance(secs), d.right.advance(secs)

	perRev := d.Geometry.WheelCircumference() / d.Geometry.GearRatio
	d.leftRevs += dl / perRev
	d.rightRevs += dr / perRev

	dist := (dl + dr) / 2
	turn := (dr - dl) / d.Geometry.TrackWidth
	// the arc in the robot frame with X forward, rotated into the field.
	arc := geom.Pose{X: dist * geom.Sinc(turn), Y: -dist * geom.Cosm1X(turn)}.
		RotateLinearBy(d.pose.HeadingRadians())
	d.pose.X += arc.X
	d.pose.Y += arc.Y
	d.pose.Heading += geom.ToDegrees(turn)
	d.gyro.rotate(-geom.ToDegrees(turn))

	if glog.V(4) {
		glog.Infof("sim: %s l=%.2f r=%.2f pose %v", d.mode, d.left.speed, d.right.speed, d.pose)
	}
}

// Pose returns the true pose, heading in polar degrees.
func (d *Drivetrain) Pose() geom.Pose {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.pose
}

// SetPose teleports the drivetrain.
func (d *Drivetrain) SetPose(p geom.Pose) {
	d.lock.Lock()
	d.pose = p
	d.lock.Unlock()
}

// WheelSpeeds returns the current surface speeds in inches per second.
func (d *Drivetrain) WheelSpeeds() (left, right float64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.left.speed, d.right.speed
}

// LeftEncoder reports left motor revolutions.
func (d *Drivetrain) LeftEncoder() odometry.RevolutionSource {
	return odometry.RevolutionFunc(func() float64 {
		d.lock.Lock()
		defer d.lock.Unlock()
		return d.leftRevs
	})
}

// RightEncoder reports right motor revolutions.
func (d *Drivetrain) RightEncoder() odometry.RevolutionSource {
	return odometry.RevolutionFunc(func() float64 {
		d.lock.Lock()
		defer d.lock.Unlock()
		return d.rightRevs
	})
}

// Gyro returns the heading sensor.
func (d *Drivetrain) Gyro() *Gyro {
	return d.gyro
}

// AttachOdometry registers the drive encoders and the gyro.
func (d *Drivetrain) AttachOdometry(o *odometry.Odometry, cwDrift, ccwDrift float64) {
	g := d.Geometry
	o.AddPositionSensor(90, d.LeftEncoder(), 1/g.GearRatio, g.WheelDiameter, -g.HalfTrack()).
		AddPositionSensor(90, d.RightEncoder(), 1/g.GearRatio, g.WheelDiameter, g.HalfTrack()).
		AddHeadingSensor(d.gyro, cwDrift, ccwDrift)
}

// AddToLoop implements fx.LoopAdder.
func (d *Drivetrain) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(func(ctx fx.ControlContext) error {
		d.Step(ctx.Time())
		return nil
	}))
}

// Gyro is a simulated heading sensor, clockwise positive, with an optional
// drift proportional to the rotation.
type Gyro struct {
	lock sync.Mutex
	// Drift is the fraction of each rotation wrongly added to the reading.
	Drift   float64
	reading float64
}

func (g *Gyro) rotate(cw float64) {
	g.lock.Lock()
	g.reading += cw * (1 + g.Drift)
	g.lock.Unlock()
}

// SetDrift sets Drift.
func (g *Gyro) SetDrift(drift float64) {
	g.lock.Lock()
	g.Drift = drift
	g.lock.Unlock()
}

// Rotation implements odometry.HeadingSensor.
func (g *Gyro) Rotation() float64 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.reading
}

// SetRotation implements odometry.HeadingSensor.
func (g *Gyro) SetRotation(d float64) {
	g.lock.Lock()
	g.reading = d
	g.lock.Unlock()
}
