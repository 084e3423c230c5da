package mqtt

import (
	"context"

	"github.com/robotalks/motion.go/pkg/comm"
	fx "github.com/robotalks/motion.go/pkg/framework"
)

// Robot status published retained on <robot-id>/status.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Registrar connects a robot to the broker: commands are posted to the
// loop and events are published.
type Registrar struct {
	Queue   *Queue
	RobotID string

	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL, robotID string) (*Registrar, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	statusTopic := robotID + "/" + TopicStatus
	opts.SetBinaryWill(topicPrefix+statusTopic, []byte(StatusOffline), 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("motion:" + robotID)
	}
	r := &Registrar{
		Queue:   NewQueue(opts, topicPrefix),
		RobotID: robotID,
	}
	r.Queue.OnConnect = func(q *Queue) {
		q.PubWith(statusTopic, []byte(StatusOnline), 1, true)
	}
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForRobot(robotID))
	return r, nil
}

// SendEvent implements comm.EventSender.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(r.RobotID+"/"+TopicStatus, []byte(StatusOffline), 1, true).Wait()
	r.Queue.Close()
	return nil
}
