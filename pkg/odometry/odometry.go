package odometry

import (
	"math"
	"sync"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/geom"
)

const (
	// a sensor contributes to an axis only when |cos| of its angle to that
	// axis exceeds this.
	minAxisCos = 1e-2
	// heading changes below this use half-angle integration.
	smallAngleDegrees = 8
)

type positionSensor struct {
	angle          float64
	source         RevolutionSource
	gearRatio      float64
	wheelDiameter  float64
	rotationRadius float64

	last, current float64
}

// travel returns the distance the wheel moved along its axis that is not
// explained by the robot rotating by dHeading degrees.
func (s *positionSensor) travel(dHeading float64) float64 {
	revs := (s.current - s.last) * s.gearRatio
	return revs*math.Pi*s.wheelDiameter - s.rotationRadius*geom.ToRadians(dHeading)
}

type headingChannel struct {
	drift *DriftCorrector

	last, current float64
}

// Odometry fuses tracking wheels and heading sensors into a pose estimate.
// Step is expected to be called from a single goroutine; Pose may be read
// from any goroutine.
type Odometry struct {
	lock     sync.Mutex
	position []*positionSensor
	heading  []*headingChannel
	factor   float64
	started  bool

	x, y  float64
	right float64 // field degrees of the robot's right side

	pose geom.AtomicPose
}

// New creates an Odometry at the origin looking at field angle 0.
func New() *Odometry {
	o := &Odometry{factor: 1, right: 90}
	o.publish()
	return o
}

// AddPositionSensor registers a tracking wheel mounted at polar angle
// (degrees, relative to the robot's right side) whose encoder turns
// gearRatio wheel revolutions per revolution. rotationRadius is the
// distance the wheel travels per radian of pure robot rotation.
func (o *Odometry) AddPositionSensor(angle float64, src RevolutionSource, gearRatio, wheelDiameter, rotationRadius float64) *Odometry {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.started {
		glog.V(2).Info("odometry: position sensor ignored after start")
		return o
	}
	o.position = append(o.position, &positionSensor{
		angle:          angle,
		source:         src,
		gearRatio:      gearRatio,
		wheelDiameter:  wheelDiameter,
		rotationRadius: rotationRadius,
	})
	return o
}

// AddHeadingSensor registers a heading sensor with its drift per revolution.
func (o *Odometry) AddHeadingSensor(sensor HeadingSensor, cwDrift, ccwDrift float64) *Odometry {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.started {
		glog.V(2).Info("odometry: heading sensor ignored after start")
		return o
	}
	o.heading = append(o.heading, &headingChannel{drift: NewDriftCorrector(sensor, cwDrift, ccwDrift)})
	return o
}

// SetPositionFactor scales wheel travel into position units.
func (o *Odometry) SetPositionFactor(f float64) {
	o.lock.Lock()
	o.factor = f
	o.lock.Unlock()
}

// Start snapshots the baseline of every sensor. It does nothing when
// already started.
func (o *Odometry) Start() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.start()
}

// Restart re-snapshots the baselines.
func (o *Odometry) Restart() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.started = false
	o.start()
}

func (o *Odometry) start() {
	if o.started {
		return
	}
	o.started = true
	for _, s := range o.position {
		s.last = s.source.Revolutions()
	}
	for _, h := range o.heading {
		h.drift.SetInitial()
		// counter-clockwise positive from here on.
		h.last = -h.drift.Rotation()
	}
	glog.V(2).Infof("odometry: started with %d position and %d heading sensors", len(o.position), len(o.heading))
	if len(o.heading) == 0 {
		glog.Warning("odometry: no heading sensors, rotation is not tracked")
	}
	for _, axis := range []float64{0, 90} {
		if o.axisSensors(axis) == 0 {
			glog.Warningf("odometry: no position sensors along %.0f°", axis)
		}
	}
}

func (o *Odometry) axisSensors(axis float64) (n int) {
	for _, s := range o.position {
		if !geom.WithinRange(math.Cos(geom.ToRadians(axis-s.angle)), 0, minAxisCos) {
			n++
		}
	}
	return
}

// Step reads all sensors once and integrates the motion since the
// previous Step.
func (o *Odometry) Step() {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.start()

	for _, s := range o.position {
		s.current = s.source.Revolutions()
	}
	for _, h := range o.heading {
		h.drift.Correct()
		h.current = -h.drift.Rotation()
	}

	dHeading := o.deltaHeading()
	local := geom.Pose{
		X:       o.localDelta(0, dHeading) * o.factor,
		Y:       o.localDelta(90, dHeading) * o.factor,
		Heading: dHeading,
	}
	if geom.WithinRange(dHeading, 0, smallAngleDegrees) {
		local = local.RotateLinearBy(geom.ToRadians(dHeading / 2))
	} else {
		local = local.RotateExponentiallyBy(geom.ToRadians(dHeading))
	}
	global := local.RotateLinearBy(geom.ToRadians(geom.SwapFieldPolar(o.right)))

	for _, s := range o.position {
		s.last = s.current
	}
	for _, h := range o.heading {
		h.last = h.current
	}
	o.x += global.X
	o.y += global.Y
	o.right -= dHeading
	o.publish()

	if glog.V(4) {
		glog.Infof("odometry: local %v global %v pose %v", local, global, o.pose.Load())
	}
}

// CorrectHeading applies the drift correction of every heading sensor
// now rather than at the next Step.
func (o *Odometry) CorrectHeading() {
	o.lock.Lock()
	defer o.lock.Unlock()
	if !o.started {
		return
	}
	for _, h := range o.heading {
		h.drift.Correct()
	}
}

// ResetHeadingDrift re-baselines the drift correction of every heading
// sensor, so rotation before now is not corrected again.
func (o *Odometry) ResetHeadingDrift() {
	o.lock.Lock()
	defer o.lock.Unlock()
	for _, h := range o.heading {
		h.drift.SetInitial()
	}
}

// deltaHeading is the mean counter-clockwise rotation in degrees.
func (o *Odometry) deltaHeading() float64 {
	if len(o.heading) == 0 {
		return 0
	}
	deltas := make([]float64, len(o.heading))
	for i, h := range o.heading {
		deltas[i] = h.current - h.last
	}
	return floats.Sum(deltas) / float64(len(deltas))
}

// localDelta averages translation along the local axis at polar angle
// axis (0 for right, 90 for forward).
func (o *Odometry) localDelta(axis, dHeading float64) float64 {
	var deltas []float64
	for _, s := range o.position {
		cos := math.Cos(geom.ToRadians(axis - s.angle))
		if geom.WithinRange(cos, 0, minAxisCos) {
			continue
		}
		deltas = append(deltas, s.travel(dHeading)/cos)
	}
	if len(deltas) == 0 {
		return 0
	}
	return floats.Sum(deltas) / float64(len(deltas))
}

func (o *Odometry) publish() {
	o.pose.Store(geom.Pose{X: o.x, Y: o.y, Heading: geom.SwapFieldPolar(o.right - 90)})
}

// SetPosition moves the tracked position.
func (o *Odometry) SetPosition(x, y float64) {
	o.lock.Lock()
	o.x, o.y = x, y
	o.publish()
	o.lock.Unlock()
}

// SetLookHeading sets the field angle the robot faces.
func (o *Odometry) SetLookHeading(fieldDegrees float64) {
	o.SetRightHeading(fieldDegrees + 90)
}

// SetRightHeading sets the field angle of the robot's right side.
func (o *Odometry) SetRightHeading(fieldDegrees float64) {
	o.lock.Lock()
	o.right = fieldDegrees
	o.publish()
	o.lock.Unlock()
}

// LookHeading returns the field angle the robot faces.
func (o *Odometry) LookHeading() float64 {
	return o.Pose().FieldHeading()
}

// RightHeading returns the field angle of the robot's right side.
func (o *Odometry) RightHeading() float64 {
	return o.LookHeading() + 90
}

// Pose returns a consistent snapshot of the estimated pose, heading in
// polar degrees.
func (o *Odometry) Pose() geom.Pose {
	return o.pose.Load()
}

// AddToLoop implements fx.LoopAdder.
func (o *Odometry) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(func(fx.ControlContext) error {
		o.Step()
		return nil
	}))
}
