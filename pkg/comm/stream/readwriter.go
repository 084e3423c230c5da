// Package stream frames packets on byte streams: TCP connections, serial
// links and recording files.
package stream

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MaxPacketSize rejects corrupted length prefixes.
const MaxPacketSize = 1 << 20

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, errors.Errorf("packet size %d exceeds %d", size, MaxPacketSize)
	}
	pkt := make([]byte, size)
	if _, err := io.ReadFull(p, pkt); err != nil {
		return nil, errors.Wrap(err, "short packet")
	}
	return pkt, nil
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	size := uint32(len(pkt))
	if err := binary.Write(p, binary.LittleEndian, size); err != nil {
		return err
	}
	_, err := p.Write(pkt[:size])
	return err
}

// Close closes the underlying stream if it can be closed.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Create creates a recording file, truncating an existing one.
func Create(path string) (*ReadWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create recording")
	}
	return New(f), nil
}

// Open opens a recording for replay.
func Open(path string) (*ReadWriter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open recording")
	}
	return New(f), nil
}
