package mqtt

import (
	"context"
	"io"
	"sync"
)

// Topic suffixes under a robot's ID.
const (
	TopicCommands = "cmd"
	TopicMessages = "msg"
	TopicStatus   = "status"
)

// ReadWriter implements PacketReadWriter.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	doneCh   chan struct{}
	once     sync.Once
	sub      *Subscription
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 16),
		doneCh:   make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForStation sets topics using default convention for stations:
// SubTopic = id/msg
// PubTopic = id/cmd
func (p *ReadWriter) ForStation(robotID string) *ReadWriter {
	return p.WithTopics(robotID+"/"+TopicMessages, robotID+"/"+TopicCommands)
}

// ForRobot sets topics using default convention for robots:
// SubTopic = id/cmd
// PubTopic = id/msg
func (p *ReadWriter) ForRobot(robotID string) *ReadWriter {
	return p.WithTopics(robotID+"/"+TopicCommands, robotID+"/"+TopicMessages)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.doneCh:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Close implements io.Closer. It stops reading but leaves the Queue
// connected.
func (p *ReadWriter) Close() error {
	p.once.Do(func() { close(p.doneCh) })
	return nil
}

// Subscribe subscribes SubTopic ahead of Run so nothing published in
// between is missed.
func (p *ReadWriter) Subscribe(ctx context.Context) error {
	if p.sub == nil {
		p.sub = p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	}
	return WaitToken(ctx, p.sub.Token)
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	if p.sub == nil {
		p.sub = p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	}
	defer p.sub.Close()
	defer p.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.doneCh:
		return nil
	}
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.doneCh:
	}
}
