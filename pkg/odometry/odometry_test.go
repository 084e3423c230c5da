package odometry

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/geom"
)

type fakeEncoder struct{ revs float64 }

func (e *fakeEncoder) Revolutions() float64 { return e.revs }

type fakeGyro struct {
	lock     sync.Mutex
	rotation float64
}

func (g *fakeGyro) Rotation() float64 {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.rotation
}

func (g *fakeGyro) SetRotation(d float64) {
	g.lock.Lock()
	g.rotation = d
	g.lock.Unlock()
}

func (g *fakeGyro) turn(d float64) { g.SetRotation(g.Rotation() + d) }

func TestDriftCorrector(t *testing.T) {
	gyro := &fakeGyro{rotation: 10}
	d := NewDriftCorrector(gyro, 3, 2)

	gyro.turn(360)
	d.Correct()
	assert.InDelta(t, 367, d.Rotation(), 1e-12)
	assert.InDelta(t, -3, d.Correction(), 1e-12)

	// the baseline is the raw reading, so the written back correction
	// counts as counter-clockwise rotation on the next call.
	d.Correct()
	assert.InDelta(t, 367-1.0/60, d.Rotation(), 1e-12)
	assert.InDelta(t, -3-1.0/60, d.Correction(), 1e-12)

	d.SetInitial()
	d.Correct()
	assert.InDelta(t, 367-1.0/60, d.Rotation(), 1e-12)

	gyro.turn(-180)
	d.Correct()
	assert.InDelta(t, 186-1.0/60, d.Rotation(), 1e-12)
	assert.InDelta(t, -4-1.0/60, d.Correction(), 1e-12)

	gyro.SetRotation(0)
	d.SetInitial()
	d.Correct()
	assert.Zero(t, d.Rotation())
}

func TestResetHeadingDrift(t *testing.T) {
	gyro := &fakeGyro{}
	o := New().AddHeadingSensor(gyro, 3, 2)
	o.Start()

	// rotation before the reset is not corrected.
	gyro.turn(360)
	o.ResetHeadingDrift()
	o.CorrectHeading()
	assert.InDelta(t, 360, gyro.Rotation(), 1e-12)

	gyro.turn(360)
	o.CorrectHeading()
	assert.InDelta(t, 717, gyro.Rotation(), 1e-12)
}

func TestLateralWheel(t *testing.T) {
	for _, factor := range []float64{1, 2.5} {
		enc, gyro := &fakeEncoder{}, &fakeGyro{}
		o := New().
			AddPositionSensor(0, enc, 1, 1/math.Pi, 0).
			AddHeadingSensor(gyro, 0, 0)
		o.SetPositionFactor(factor)
		o.Start()

		enc.revs = 4
		o.Step()
		p := o.Pose()
		assert.InDelta(t, 4*factor, p.X, 1e-9)
		assert.InDelta(t, 0, p.Y, 1e-9)
		assert.InDelta(t, 90, p.Heading, 1e-9)
	}
}

func TestForwardAfterTurn(t *testing.T) {
	enc, gyro := &fakeEncoder{}, &fakeGyro{}
	o := New().
		AddPositionSensor(90, enc, 1, 1/math.Pi, 0).
		AddHeadingSensor(gyro, 0, 0)
	o.Start()

	enc.revs = 10
	o.Step()
	requirePose(t, geom.PoseAt(0, 10, 90), o.Pose())
	assert.InDelta(t, 0, o.LookHeading(), 1e-9)

	// clockwise quarter turn in place, then forward again.
	gyro.turn(90)
	o.Step()
	requirePose(t, geom.PoseAt(0, 10, 0), o.Pose())
	assert.InDelta(t, 90, o.LookHeading(), 1e-9)
	assert.InDelta(t, 180, o.RightHeading(), 1e-9)

	enc.revs = 15
	o.Step()
	requirePose(t, geom.PoseAt(5, 10, 0), o.Pose())
}

func TestArcIsExact(t *testing.T) {
	enc, gyro := &fakeEncoder{}, &fakeGyro{}
	o := New().
		AddPositionSensor(90, enc, 1, 1/math.Pi, 0).
		AddHeadingSensor(gyro, 0, 0)
	o.Start()

	const s = 12.0
	theta := geom.ToRadians(30)
	enc.revs = s
	gyro.turn(-30)
	o.Step()

	r := s / theta
	requirePose(t, geom.PoseAt(-r*(1-math.Cos(theta)), r*math.Sin(theta), 120), o.Pose())
}

func TestRotationRadiusCancelsTurn(t *testing.T) {
	enc, gyro := &fakeEncoder{}, &fakeGyro{}
	// a wheel left of the center travels backwards on a CCW turn.
	o := New().
		AddPositionSensor(90, enc, 1, 1/math.Pi, -5).
		AddHeadingSensor(gyro, 0, 0)
	o.Start()
	enc.revs = -5 * geom.ToRadians(4)
	gyro.turn(-4)
	o.Step()
	p := o.Pose()
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.InDelta(t, 94, p.Heading, 1e-9)
}

func TestMissingSensors(t *testing.T) {
	o := New()
	o.Step()
	requirePose(t, geom.PoseAt(0, 0, 90), o.Pose())
}

func TestSensorsIgnoredAfterStart(t *testing.T) {
	enc := &fakeEncoder{}
	o := New()
	o.Start()
	o.AddPositionSensor(0, enc, 1, 1/math.Pi, 0)
	enc.revs = 3
	o.Step()
	assert.Zero(t, o.Pose().X)

	o.Restart()
	o.Step()
	assert.Zero(t, o.Pose().X)
}

func TestRelocalize(t *testing.T) {
	o := New()
	o.SetPosition(3, 4)
	o.SetLookHeading(45)
	p := o.Pose()
	assert.Equal(t, 3.0, p.X)
	assert.Equal(t, 4.0, p.Y)
	assert.InDelta(t, 45, p.Heading, 1e-12)
	o.SetRightHeading(0)
	assert.InDelta(t, -90, o.LookHeading(), 1e-12)
}

func TestPoseSnapshotIsConsistent(t *testing.T) {
	encR, encF, gyro := &fakeEncoder{}, &fakeEncoder{}, &fakeGyro{}
	o := New().
		AddPositionSensor(0, encR, 1, 1/math.Pi, 0).
		AddPositionSensor(90, encF, 1, 1/math.Pi, 0).
		AddHeadingSensor(gyro, 0, 0)
	o.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 1000; i++ {
			encR.revs, encF.revs = float64(i), float64(i)
			o.Step()
		}
	}()
	for i := 0; i < 1000; i++ {
		p := o.Pose()
		require.Equal(t, p.X, p.Y)
	}
	wg.Wait()
	assert.InDelta(t, 1000, o.Pose().X, 1e-6)
}

func requirePose(t *testing.T, expect, actual geom.Pose) {
	t.Helper()
	require.InDelta(t, expect.X, actual.X, 1e-9, "X of %v", actual)
	require.InDelta(t, expect.Y, actual.Y, 1e-9, "Y of %v", actual)
	require.InDelta(t, expect.Heading, actual.Heading, 1e-9, "heading of %v", actual)
}
