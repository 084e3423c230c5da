package comm

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

// DefaultCommandExpiration is the default expiration expecting a result.
const DefaultCommandExpiration = 1 * time.Second

// Result represents result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}

// Client sends commands to a robot over a Pipe and matches replies by
// sequence. Events are passed to OnEvent.
type Client struct {
	Expiration time.Duration
	Clock      clock.Clock
	OnEvent    fx.MessageHandler

	pipe     Pipe
	seq      uint32
	commands list.List
	seqMap   map[uint32]*commandFuture
	lock     sync.Mutex
}

// NewClient creates a Client on rw.
func NewClient(rw PacketReadWriter) *Client {
	c := &Client{
		Expiration: DefaultCommandExpiration,
		Clock:      clock.New(),
		seqMap:     make(map[uint32]*commandFuture),
	}
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	return c
}

// DoCommand sends a command and returns the future of its reply.
func (c *Client) DoCommand(msg fx.Message) CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	if c.seq == 0 {
		c.seq++
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: c.Clock.Now().Add(c.Expiration),
		result:   make(chan Result, 1),
	}
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.result <- Result{Err: err}
		close(f.result)
		return f
	}
	f.elem = c.commands.PushBack(f)
	c.seqMap[f.seq] = f
	return f
}

// Do sends a command and waits for its reply. A CommandErr reply is
// returned as the error.
func (c *Client) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	select {
	case r := <-c.DoCommand(msg).ResultChan():
		return r.Msg, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AddToLoop implements LoopAdder.
func (c *Client) AddToLoop(l *fx.Loop) {
	l.Add(&c.pipe)
	l.AddController(fx.PrLvIdle, fx.ControlFunc(c.purgeExpired))
}

// Run reads replies until rw is exhausted, expiring pending commands on
// the way.
func (c *Client) Run(ctx context.Context) error {
	ticker := c.Clock.Ticker(c.Expiration / 4)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.purgeExpired(nil)
			}
		}
	}()
	return c.pipe.Run(ctx)
}

// Close closes the underlying packet reader/writer.
func (c *Client) Close() error {
	return c.pipe.Close()
}

func (c *Client) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		if h := c.OnEvent; h != nil {
			h.HandleMessage(ctx, msg)
		}
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	f := c.seqMap[typed.Sequence]
	if f == nil {
		return nil
	}
	c.commands.Remove(f.elem)
	delete(c.seqMap, typed.Sequence)
	result := Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.result <- result
	close(f.result)
	return nil
}

func (c *Client) purgeExpired(fx.ControlContext) error {
	now := c.Clock.Now()
	c.lock.Lock()
	defer c.lock.Unlock()
	for c.commands.Len() > 0 {
		elem := c.commands.Front()
		f := elem.Value.(*commandFuture)
		if f.expireAt.After(now) {
			break
		}
		c.commands.Remove(elem)
		delete(c.seqMap, f.seq)
		f.result <- Result{Err: context.DeadlineExceeded}
		close(f.result)
	}
	return nil
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	elem     *list.Element
	result   chan Result
}

func (c *commandFuture) ResultChan() <-chan Result {
	return c.result
}
