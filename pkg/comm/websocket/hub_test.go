package websocket

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/motion.go/pkg/comm"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/geom"
	"github.com/robotalks/motion.go/pkg/msgs"
	pb "github.com/robotalks/motion.go/pkg/proto/motion/v1"
)

func answerPoseQueries(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmd, ok := mctx.CurrentMessage().(*comm.CommandMsg)
		if !ok {
			return
		}
		if _, ok := cmd.Command.Msg().(*msgs.PoseQuery); ok {
			mctx.MessageTaken()
			cmd.Command.Done(&msgs.CurrentPose{Pose: pb.Pose{X: 1, Y: 2, Heading: 90}})
		}
	}))
	return nil
}

func TestHub(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	hub := &Hub{Listener: ln}

	loop := fx.NewLoop()
	loop.Add(hub, &comm.UnsupportedCommands{})
	loop.AddController(fx.PrLvControl, fx.ControlFunc(answerPoseQueries))
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()
	defer func() {
		cancel()
		<-loopDone
	}()

	conn, err := websocket.Dial("ws://"+ln.Addr().String()+DefaultPath, "", "http://localhost/")
	require.NoError(t, err)
	events := make(chan fx.Message, 4)
	client := comm.NewClient(New(conn))
	client.OnEvent = fx.HandleMessageFunc(func(_ context.Context, msg fx.Message) {
		events <- msg
	})
	go client.Run(ctx)

	reply, err := client.Do(ctx, &msgs.PoseQuery{})
	require.NoError(t, err)
	assert.Equal(t, geom.PoseAt(1, 2, 90), msgs.PoseFrom(&reply.(*msgs.CurrentPose).Pose))

	_, err = client.Do(ctx, &msgs.Cancel{})
	assert.EqualError(t, err, msgs.ErrUnsupportedCommand.Error())

	assert.Equal(t, 1, hub.Stations())
	require.NoError(t, hub.SendEvent(ctx, msgs.NewPoseReport("bot", time.Now(), geom.PoseAt(3, 4, 0))))
	select {
	case msg := <-events:
		report, ok := msg.(*msgs.PoseReport)
		require.True(t, ok)
		assert.Equal(t, "bot", report.RobotId)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestHubWithoutStations(t *testing.T) {
	hub := NewHub("127.0.0.1:0")
	assert.NoError(t, hub.SendEvent(context.Background(), &msgs.Progress{}))
}
