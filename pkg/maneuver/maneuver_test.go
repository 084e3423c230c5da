package maneuver

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/geom"
	"github.com/robotalks/motion.go/pkg/odometry"
	"github.com/robotalks/motion.go/pkg/sim"
	"github.com/robotalks/motion.go/pkg/spline"
)

// bench steps a simulated drivetrain, the odometry and a maneuver in
// lock step on a mock clock.
type bench struct {
	clock *clock.Mock
	sim   *sim.Drivetrain
	odom  *odometry.Odometry
	env   *Env
}

func newBench() *bench {
	g := drive.DefaultGeometry()
	b := &bench{
		clock: clock.NewMock(),
		sim:   sim.NewDrivetrain(g, sim.DefaultAccel),
		odom:  odometry.New(),
	}
	b.sim.AttachOdometry(b.odom, 0, 0)
	b.odom.SetPositionFactor(1 / g.TileLength)
	b.odom.Start()
	b.sim.Step(b.clock.Now())
	b.env = &Env{
		Drive:     drive.NewDifferential(b.sim, g),
		Pose:      b.odom,
		Corrector: b.odom,
		Clock:     b.clock,
		Config:    NewConfig(),
	}
	return b
}

func (b *bench) advance(d time.Duration) {
	for i := 0; i < 2; i++ {
		b.clock.Add(d / 2)
		b.sim.Step(b.clock.Now())
		b.odom.Step()
	}
}

func (b *bench) run(m Maneuver) Result {
	x := newExecution(b.env, m)
	x.begin(b.clock.Now())
	for !x.tick(b.clock.Now()) {
		b.advance(b.env.Config.Interval)
	}
	return x.result
}

// coast lets the drivetrain roll out after a maneuver.
func (b *bench) coast() geom.Pose {
	for i := 0; i < 50; i++ {
		b.advance(20 * time.Millisecond)
	}
	return b.odom.Pose()
}

func TestTurnToAngle(t *testing.T) {
	cases := []struct {
		name   string
		target float64
		maxPct float64
	}{
		{"right", 90, 0},
		{"left", -135, 0},
		{"slow", -45, 20},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBench()
			res := b.run(&TurnToAngle{Target: c.target, MaxPct: c.maxPct})
			require.NoError(t, res.Err)
			assert.Contains(t, []Reason{Settled, Exhausted}, res.Reason)
			assert.True(t, res.Elapsed < DefaultTimeout)
			assert.InDelta(t, c.target, res.Pose.FieldHeading(), 6)
			// braking leaves nothing to roll out.
			l, r := b.sim.WheelSpeeds()
			assert.Zero(t, l)
			assert.Zero(t, r)
			assert.InDelta(t, 0, res.Pose.X, 0.05)
			assert.InDelta(t, 0, res.Pose.Y, 0.05)
		})
	}
}

func TestTurnWheelFactors(t *testing.T) {
	b := newBench()
	turn := &TurnToAngle{Target: 90, CenterOffset: b.env.Drive.Geometry.HalfTrack()}
	turn.Begin(b.env)
	// pivot on the right wheel.
	assert.InDelta(t, 2, turn.leftFactor, 1e-12)
	assert.InDelta(t, 0, turn.rightFactor, 1e-12)
	assert.True(t, turn.useVolt)
	assert.InDelta(t, 90, turn.Remaining(), 1e-9)
}

func TestTurnToFace(t *testing.T) {
	cases := []struct {
		name    string
		x, y    float64
		reverse bool
		expect  float64
	}{
		{"ahead right", 1, 1, false, 45},
		{"behind", 0, -1, false, 180},
		{"reverse", 1, 0, true, -90},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBench()
			res := b.run(&TurnToFace{X: c.x, Y: c.y, Reverse: c.reverse})
			require.NoError(t, res.Err)
			delta := geom.NormalizeDegrees(res.Pose.FieldHeading() - c.expect)
			assert.InDelta(t, 0, delta, 6)
		})
	}
}

func TestFacingAngle(t *testing.T) {
	origin := geom.PoseAt(0, 0, 90)
	assert.InDelta(t, 0, FacingAngle(origin, 0, 1, false), 1e-9)
	assert.InDelta(t, 90, FacingAngle(origin, 1, 0, false), 1e-9)
	assert.InDelta(t, 180, FacingAngle(origin, 0, 1, true), 1e-9)
	assert.InDelta(t, 135, FacingAngle(geom.PoseAt(1, 1, 0), 2, 0, false), 1e-9)
}

func TestDriveDistance(t *testing.T) {
	cases := []struct {
		name     string
		drive    *DriveDistance
		x, y     float64
		heading  float64
		tolerate float64
	}{
		{"forward", DriveStraight(2), 0, 2, 0, 0.1},
		{"backward", DriveStraight(-1), 0, -1, 0, 0.1},
		{"veer", &DriveDistance{Distance: 2, Heading: 20}, 0.27, 1.96, 20, 0.15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBench()
			res := b.run(c.drive)
			require.NoError(t, res.Err)
			assert.NotEqual(t, Timeout, res.Reason)
			pose := b.coast()
			assert.InDelta(t, c.x, pose.X, c.tolerate)
			assert.InDelta(t, c.y, pose.Y, c.tolerate)
			assert.InDelta(t, c.heading, pose.FieldHeading(), 3)
			assert.True(t, c.drive.Remaining() < math.Abs(c.drive.Distance))
		})
	}
}

func TestDriveTurnToFace(t *testing.T) {
	cases := []struct {
		name    string
		x, y    float64
		reverse bool
		heading float64
	}{
		{"forward", 1, 2, false, 63.4},
		{"reverse", 0, -1.5, true, 90},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBench()
			m := &DriveTurnToFace{X: c.x, Y: c.y, Reverse: c.reverse}
			res := b.run(m)
			require.NoError(t, res.Err)
			assert.Equal(t, Settled, res.Reason)
			assert.Zero(t, m.Remaining())
			pose := b.coast()
			assert.InDelta(t, c.x, pose.X, 0.15)
			assert.InDelta(t, c.y, pose.Y, 0.15)
			assert.InDelta(t, c.heading, pose.Heading, 8)
		})
	}
}

func TestDriveTurnToFaceProgress(t *testing.T) {
	b := newBench()
	m := &DriveTurnToFace{X: 0, Y: 2}
	x := newExecution(b.env, m)
	x.begin(b.clock.Now())
	assert.InDelta(t, 2, x.progress().Remaining, 1e-9)
	last := m.Remaining()
	for i := 0; i < 20 && !x.tick(b.clock.Now()); i++ {
		b.advance(b.env.Config.Interval)
		require.True(t, m.Remaining() <= last+1e-9)
		last = m.Remaining()
	}
	assert.True(t, last < 2)
	x.finish(Canceled, nil)
	assert.True(t, x.progress().Done)
	assert.Equal(t, Canceled, x.result.Reason)
}

func testPath(t *testing.T) *Path {
	s, err := spline.FromAutoTangent(spline.CatmullRom,
		r2.Point{X: 0, Y: -1}, r2.Point{X: 0, Y: 0}, r2.Point{X: 0, Y: 1},
		r2.Point{X: 0.5, Y: 2}, r2.Point{X: 1.5, Y: 2.5}, r2.Point{X: 2.5, Y: 2.5})
	require.NoError(t, err)
	path, err := PlanPath(s, NewConfig().PlanOptions(drive.DefaultGeometry()))
	require.NoError(t, err)
	return path
}

func TestPlanPath(t *testing.T) {
	path := testPath(t)
	assert.Len(t, path.Sampler.Samples(), 3*7+1)
	total := path.Sampler.TotalDistance()
	assert.InDelta(t, total, path.Profile.TotalDistance(), 1e-12)
	assert.True(t, path.Duration() > time.Second)
	end := path.Profile.MotionAt(path.Profile.TotalTime())
	assert.InDelta(t, total, end.Distance, 1e-6)
}

func TestFollowPath(t *testing.T) {
	b := newBench()
	path := testPath(t)
	m := &FollowPath{Path: path}
	res := b.run(m)
	require.NoError(t, res.Err)
	assert.Equal(t, Completed, res.Reason)
	assert.Zero(t, m.Remaining())
	assert.InDelta(t, path.Duration().Seconds(), res.Elapsed.Seconds(), 0.05)

	pose := b.coast()
	assert.InDelta(t, 1.5, pose.X, 0.1)
	assert.InDelta(t, 2.5, pose.Y, 0.1)
	assert.True(t, math.Abs(geom.NormalizeDegrees(pose.Heading-path.Spline.PoseAt(3, false).Heading)) < 15)
}

func TestManeuverTimeout(t *testing.T) {
	b := newBench()
	// the gyro never sees the rotation, so the turn can not settle.
	b.env.Corrector = nil
	b.sim.Gyro().SetDrift(-1)
	res := b.run(&TurnToAngle{Target: 90, Limit: 300 * time.Millisecond})
	assert.Contains(t, []Reason{Timeout, Exhausted}, res.Reason)
	assert.True(t, res.Elapsed <= 300*time.Millisecond)
	l, r := b.sim.WheelSpeeds()
	assert.Zero(t, l)
	assert.Zero(t, r)
}

func TestSequenceSteps(t *testing.T) {
	cause := errors.New("stalled")
	cases := []struct {
		name   string
		steps  []*countdown
		reason Reason
		ended  []Reason
	}{
		{
			name:   "completes",
			steps:  []*countdown{{ticks: 2}, {ticks: 1}},
			reason: Completed,
			ended:  []Reason{Completed, Completed},
		},
		{
			name:   "step timeout hands over",
			steps:  []*countdown{{ticks: -1, limit: 100 * time.Millisecond}, {ticks: 1}},
			reason: Completed,
			ended:  []Reason{Timeout, Completed},
		},
		{
			name:   "failure stops",
			steps:  []*countdown{{ticks: 1}, {ticks: -1, err: cause}, {ticks: 1}},
			reason: Failed,
			ended:  []Reason{Completed, Failed, Running},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := newBench()
			seq := &Sequence{}
			for _, step := range c.steps {
				seq.Steps = append(seq.Steps, step)
			}
			res := b.run(seq)
			assert.Equal(t, c.reason, res.Reason)
			if c.reason == Failed {
				assert.Equal(t, cause, errors.Cause(res.Err))
			}
			for i, step := range c.steps {
				assert.Equal(t, c.ended[i], step.ended, "step %d", i)
			}
		})
	}
}

func TestSequenceCanceled(t *testing.T) {
	b := newBench()
	step := &countdown{ticks: -1}
	seq := &Sequence{Steps: []Maneuver{step, &countdown{ticks: 1}}}
	x := newExecution(b.env, seq)
	assert.True(t, x.limit < 0)
	x.begin(b.clock.Now())
	for i := 0; i < 3; i++ {
		require.False(t, x.tick(b.clock.Now()))
		b.advance(b.env.Config.Interval)
	}
	x.finish(Canceled, nil)
	assert.Equal(t, Canceled, step.ended)
	assert.Equal(t, 0, seq.Step())
	assert.Equal(t, Canceled, seq.Last().Reason)
}

func TestWaypoints(t *testing.T) {
	b := newBench()
	seq := Waypoints([]r2.Point{{X: 1, Y: 1}, {X: 1, Y: 2}}, false, 0)
	require.Len(t, seq.Steps, 4)
	res := b.run(seq)
	require.NoError(t, res.Err)
	assert.Equal(t, Completed, res.Reason)
	assert.Equal(t, 4, seq.Step())
	pose := b.coast()
	assert.InDelta(t, 1, pose.X, 0.2)
	assert.InDelta(t, 2, pose.Y, 0.2)
}
