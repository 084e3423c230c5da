package comm

import (
	"context"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

// EventWriter encodes events onto a write-only packet stream, e.g. a
// recording file or a Fanout.
type EventWriter struct {
	Writer PacketWriter
}

// SendEvent implements EventSender.
func (w *EventWriter) SendEvent(ctx context.Context, msg fx.Message) error {
	pkt, err := msgs.Encode(msg, 0)
	if err != nil {
		return err
	}
	return w.Writer.WritePacket(pkt)
}
