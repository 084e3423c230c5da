package sh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
	pb "github.com/robotalks/motion.go/pkg/proto/motion/v1"
)

type commanderFunc func(ctx context.Context, msg fx.Message) (fx.Message, error)

func (f commanderFunc) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	return f(ctx, msg)
}

func TestShellDo(t *testing.T) {
	s := New(NewConfig())
	_, err := s.Do(&msgs.PoseQuery{})
	assert.EqualError(t, err, "not connected")

	var got fx.Message
	s.Attach("local", commanderFunc(func(ctx context.Context, msg fx.Message) (fx.Message, error) {
		got = msg
		return &msgs.CurrentPose{Pose: pb.Pose{X: 1, Y: 2, Heading: 90}}, nil
	}))
	reply, err := s.Do(&msgs.PoseQuery{})
	require.NoError(t, err)
	assert.IsType(t, &msgs.PoseQuery{}, got)
	assert.IsType(t, &msgs.CurrentPose{}, reply)
}

func TestShellTimeout(t *testing.T) {
	conf := NewConfig()
	conf.Timeout = 10 * time.Millisecond
	s := New(conf).Attach("slow", commanderFunc(func(ctx context.Context, msg fx.Message) (fx.Message, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	_, err := s.Do(&msgs.Cancel{})
	assert.EqualError(t, err, "command timeout")
}

func TestShellFormat(t *testing.T) {
	s := New(NewConfig())
	out, err := s.Format(&msgs.CurrentPose{Pose: pb.Pose{X: 1, Heading: 90}})
	require.NoError(t, err)
	assert.Contains(t, out, "CurrentPose")
	assert.Contains(t, out, "heading:90")

	out, err = s.Format(&msgs.PoseQuery{})
	require.NoError(t, err)
	assert.Equal(t, "PoseQuery", out)

	s.OutputJSON = true
	out, err = s.Format(msgs.NewCommandOK("m1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"maneuver_id":"m1"}`, out)

	_, err = s.Format(&commandMsg{})
	assert.Equal(t, msgs.ErrNotSerializable, err)
}

type commandMsg struct{}

func (m *commandMsg) NewMessage() fx.Message { return &commandMsg{} }

func TestShellWatch(t *testing.T) {
	s := New(NewConfig())
	ctx := context.Background()
	for _, level := range []int{WatchNone, WatchManeuvers, WatchAll} {
		s.SetWatch(level)
		assert.NoError(t, s.SendEvent(ctx, &msgs.Done{}))
		assert.NoError(t, s.SendEvent(ctx, &msgs.PoseReport{}))
	}
	s.SetWatch(WatchAll)
	assert.Equal(t, msgs.ErrNotSerializable, s.SendEvent(ctx, &commandMsg{}))
}
