package comm

import (
	"context"

	"go.uber.org/multierr"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

// EventSender sends events to stations.
type EventSender interface {
	SendEvent(context.Context, fx.Message) error
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandMsg wraps a Command as a Message.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }

// Registrar connects a robot to stations over a Pipe. Received commands
// are posted to the loop as CommandMsg, events as themselves.
type Registrar struct {
	pipe Pipe
}

// NewRegistrar creates a Registrar on rw.
func NewRegistrar(rw PacketReadWriter) *Registrar {
	r := &Registrar{}
	r.Init(rw)
	return r
}

// Init initializes the Registrar with defaults.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe.ReadWriter = rw
	r.pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		PostTyped(ctx, &r.pipe, msg, typed)
		return nil
	})
}

// PostTyped posts a message decoded from pipe into the loop found in ctx.
func PostTyped(ctx context.Context, pipe *Pipe, msg fx.Message, typed *msgs.Typed) {
	loopCtl := fx.LoopCtlFrom(ctx)
	switch {
	case typed.IsReply():
		return
	case typed.IsCommand():
		loopCtl.PostMessage(&CommandMsg{Command: &command{seq: typed.Sequence, msg: msg, pipe: pipe}})
	default:
		loopCtl.PostMessage(msg)
	}
	loopCtl.TriggerNext()
}

// SendEvent implements EventSender.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEventMsg(msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.pipe)
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.pipe.SendCommandMsg(msg, c.seq)
}

// RegistrarMux sends events through multiple senders.
type RegistrarMux struct {
	Registrars []EventSender
}

// SendEvent implements EventSender.
func (r *RegistrarMux) SendEvent(ctx context.Context, msg fx.Message) (err error) {
	for _, reg := range r.Registrars {
		err = multierr.Append(err, reg.SendEvent(ctx, msg))
	}
	return
}

// AddToLoop implements LoopAdder.
func (r *RegistrarMux) AddToLoop(l *fx.Loop) {
	for _, reg := range r.Registrars {
		if adder, ok := reg.(fx.LoopAdder); ok {
			l.Add(adder)
		}
	}
}

// Add adds more registrars.
func (r *RegistrarMux) Add(regs ...EventSender) {
	r.Registrars = append(r.Registrars, regs...)
}

// UnsupportedCommands replies left-over commands as unsupported.
type UnsupportedCommands struct {
}

// Control implements Controller.
func (c *UnsupportedCommands) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*CommandMsg); ok {
			mctx.MessageTaken()
			cmdMsg.Command.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
		}
	}))
	return nil
}

// AddToLoop implements LoopAdder.
func (c *UnsupportedCommands) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvIdle, c)
}
