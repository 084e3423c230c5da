package comm

import (
	"sync"

	"go.uber.org/multierr"
)

// Fanout writes every packet to all attached writers.
type Fanout struct {
	lock    sync.RWMutex
	writers []PacketWriter
}

// Attach adds writers.
func (f *Fanout) Attach(writers ...PacketWriter) *Fanout {
	f.lock.Lock()
	f.writers = append(f.writers[:len(f.writers):len(f.writers)], writers...)
	f.lock.Unlock()
	return f
}

// Detach removes a writer.
func (f *Fanout) Detach(w PacketWriter) {
	f.lock.Lock()
	defer f.lock.Unlock()
	writers := make([]PacketWriter, 0, len(f.writers))
	for _, attached := range f.writers {
		if attached != w {
			writers = append(writers, attached)
		}
	}
	f.writers = writers
}

// Len returns the number of attached writers.
func (f *Fanout) Len() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return len(f.writers)
}

// WritePacket implements PacketWriter. A failing writer does not keep the
// packet from the others.
func (f *Fanout) WritePacket(pkt []byte) (err error) {
	f.lock.RLock()
	writers := f.writers
	f.lock.RUnlock()
	for _, w := range writers {
		err = multierr.Append(err, w.WritePacket(pkt))
	}
	return
}
