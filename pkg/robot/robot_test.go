package robot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/comm/stream"
	"github.com/robotalks/motion.go/pkg/config"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/geom"
	"github.com/robotalks/motion.go/pkg/maneuver"
	"github.com/robotalks/motion.go/pkg/msgs"
	pb "github.com/robotalks/motion.go/pkg/proto/motion/v1"
)

type eventSink struct {
	lock   sync.Mutex
	events []fx.Message
}

func (s *eventSink) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.Lock()
	s.events = append(s.events, msg)
	s.lock.Unlock()
	return nil
}

func (s *eventSink) done(id string) *msgs.Done {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, ev := range s.events {
		if done, ok := ev.(*msgs.Done); ok && done.ManeuverId == id {
			return done
		}
	}
	return nil
}

func (s *eventSink) count(match func(fx.Message) bool) (n int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, ev := range s.events {
		if match(ev) {
			n++
		}
	}
	return
}

func runRobot(t *testing.T) (*Robot, *eventSink) {
	r := New("r1", config.Default())
	sink := &eventSink{}
	r.Events.Add(sink)
	loop := r.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(doneCh)
	}()
	t.Cleanup(func() {
		cancel()
		<-doneCh
	})
	return r, sink
}

func doCommand(t *testing.T, r *Robot, msg fx.Message) (fx.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.Do(ctx, msg)
}

func waitDone(t *testing.T, sink *eventSink, reply fx.Message) *msgs.Done {
	ok, isOK := reply.(*msgs.CommandOK)
	require.True(t, isOK, "reply %T", reply)
	require.NotEmpty(t, ok.ManeuverId)
	var done *msgs.Done
	require.Eventually(t, func() bool {
		done = sink.done(ok.ManeuverId)
		return done != nil
	}, 10*time.Second, 10*time.Millisecond)
	return done
}

func TestPoseQuery(t *testing.T) {
	r, _ := runRobot(t)
	reply, err := doCommand(t, r, &msgs.PoseQuery{})
	require.NoError(t, err)
	pose, ok := reply.(*msgs.CurrentPose)
	require.True(t, ok)
	assert.Equal(t, geom.PoseAt(0, 0, 90), msgs.PoseFrom(&pose.Pose))
}

func TestTurnCommand(t *testing.T) {
	r, sink := runRobot(t)
	reply, err := doCommand(t, r, &msgs.Turn{TurnCommand: pb.TurnCommand{Target: 90}})
	require.NoError(t, err)
	done := waitDone(t, sink, reply)
	assert.Equal(t, KindTurn, done.Kind)
	assert.Empty(t, done.Error)
	assert.Contains(t, []string{"settled", "exhausted", "timeout"}, done.Reason)
	assert.InDelta(t, 90, msgs.PoseFrom(done.Pose).FieldHeading(), 10)
	assert.True(t, sink.count(func(m fx.Message) bool {
		p, ok := m.(*msgs.Progress)
		return ok && p.Kind == KindTurn
	}) > 0)
	assert.Nil(t, r.Runner.Active())
}

func TestSetPose(t *testing.T) {
	r, sink := runRobot(t)
	reply, err := doCommand(t, r, &msgs.SetPose{SetPoseCommand: pb.SetPoseCommand{Pose: &pb.Pose{X: 1, Y: 2, Heading: 0}}})
	require.NoError(t, err)
	assert.IsType(t, &msgs.CommandOK{}, reply)
	assert.Equal(t, geom.PoseAt(1, 2, 0), r.Pose())

	reply, err = doCommand(t, r, &msgs.Drive{DriveCommand: pb.DriveCommand{Distance: 3, KeepHeading: true}})
	require.NoError(t, err)
	_, err = doCommand(t, r, &msgs.SetPose{SetPoseCommand: pb.SetPoseCommand{Pose: &pb.Pose{}}})
	require.Error(t, err)
	assert.Equal(t, maneuver.ErrBusy.Error(), err.Error())

	_, err = doCommand(t, r, &msgs.Cancel{})
	require.NoError(t, err)
	waitDone(t, sink, reply)
}

func TestCancelCommand(t *testing.T) {
	r, sink := runRobot(t)
	reply, err := doCommand(t, r, &msgs.Drive{DriveCommand: pb.DriveCommand{Distance: 5, KeepHeading: true}})
	require.NoError(t, err)
	id := reply.(*msgs.CommandOK).ManeuverId

	_, err = doCommand(t, r, &msgs.Turn{TurnCommand: pb.TurnCommand{Target: 45}})
	require.Error(t, err)
	assert.Equal(t, maneuver.ErrBusy.Error(), err.Error())

	canceled, err := doCommand(t, r, &msgs.Cancel{})
	require.NoError(t, err)
	assert.Equal(t, id, canceled.(*msgs.CommandOK).ManeuverId)
	done := waitDone(t, sink, reply)
	assert.Equal(t, "canceled", done.Reason)
	assert.Equal(t, KindDrive, done.Kind)

	idle, err := doCommand(t, r, &msgs.Cancel{})
	require.NoError(t, err)
	assert.Empty(t, idle.(*msgs.CommandOK).ManeuverId)
}

func TestFollowCommandErrors(t *testing.T) {
	r, _ := runRobot(t)
	_, err := doCommand(t, r, &msgs.Follow{FollowCommand: pb.FollowCommand{
		Points: []*pb.Point{{X: 0, Y: 0}, {X: 0, Y: 1}},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 4 points")

	_, err = doCommand(t, r, &msgs.Follow{FollowCommand: pb.FollowCommand{
		Points: []*pb.Point{{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
		Basis:  "nurbs",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown spline basis")
}

func TestPoseReports(t *testing.T) {
	_, sink := runRobot(t)
	require.Eventually(t, func() bool {
		return sink.count(func(m fx.Message) bool {
			p, ok := m.(*msgs.PoseReport)
			return ok && p.RobotId == "r1"
		}) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDoWithoutLoop(t *testing.T) {
	r := New("r1", config.Default())
	_, err := r.Do(context.Background(), &msgs.PoseQuery{})
	assert.Equal(t, errNotRunning, err)
}

func TestNewRobotRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.rec")
	conf := NewConfig()
	conf.ID = "rec"
	conf.RecordPath = path
	conf.ReportEvery = 1
	r, err := conf.NewRobot(context.Background(), config.Default())
	require.NoError(t, err)
	require.Len(t, r.Events.Registrars, 1)

	loop := r.NewLoop()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		loop.Step(ctx)
	}
	require.NoError(t, r.Close())

	rec, err := stream.Open(path)
	require.NoError(t, err)
	defer rec.Close()
	pkt, err := rec.ReadPacket()
	require.NoError(t, err)
	msg, _, err := msgs.Decode(pkt)
	require.NoError(t, err)
	report, ok := msg.(*msgs.PoseReport)
	require.True(t, ok)
	assert.Equal(t, "rec", report.RobotId)
}
