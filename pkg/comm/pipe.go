package comm

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

// Pipe is a bi-directional pipe for messages.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe with given PacketReadWriter.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// SendCommandMsg sends a command or a reply with the given sequence.
func (p *Pipe) SendCommandMsg(msg fx.Message, seq uint32) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsCommand() {
		return errors.Errorf("message %x is not a command", typed.TypeId)
	}
	typed.Sequence = seq
	return p.SendTyped(typed)
}

// SendEventMsg sends a message which must be an event.
func (p *Pipe) SendEventMsg(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !typed.IsEvent() {
		return errors.Errorf("message %x is not an event", typed.TypeId)
	}
	return p.SendTyped(typed)
}

// SendTyped send a Typed message.
func (p *Pipe) SendTyped(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements Runnable. The ReadWriter is closed when ctx is done.
func (p *Pipe) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p, func() error {
		return p.receive(ctx)
	})
}

func (p *Pipe) receive(ctx context.Context) error {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		msg, typed, err := msgs.Decode(pkt)
		if err != nil {
			if typed != nil && typed.IsCommand() && !typed.IsReply() {
				if err = p.SendCommandMsg(msgs.NewCommandErr(err), typed.Sequence); err != nil {
					return err
				}
			}
			// otherwise, simply ignored.
			continue
		}
		if h := p.Handler; h != nil {
			err = h.HandleTypedMsg(ctx, msg, typed)
		}
		if err != nil {
			return err
		}
	}
}

// Close implements Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (p *Pipe) AddToLoop(loop *fx.Loop) {
	if adder, ok := p.ReadWriter.(fx.LoopAdder); ok {
		loop.Add(adder)
	} else if runnable, ok := p.ReadWriter.(fx.Runnable); ok {
		loop.AddRunnable(runnable)
	}
	loop.AddRunnable(p)
}
