package stream

import (
	"bytes"
	"encoding/binary"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte("pose")))
	require.NoError(t, rw.WritePacket(nil))
	assert.Equal(t, []byte{4, 0, 0, 0, 'p', 'o', 's', 'e', 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte("pose"), pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	assert.Empty(t, pkt)
	_, err = rw.ReadPacket()
	assert.Equal(t, io.EOF, err)
}

func TestCorruptStream(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(MaxPacketSize+1))
	_, err := New(&buf).ReadPacket()
	assert.Error(t, err)

	buf.Reset()
	binary.Write(&buf, binary.LittleEndian, uint32(8))
	buf.WriteString("abc")
	_, err = New(&buf).ReadPacket()
	assert.Error(t, err)
}

func TestRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.rec")
	w, err := Create(path)
	require.NoError(t, err)
	for _, pkt := range []string{"a", "bc", "def"} {
		require.NoError(t, w.WritePacket([]byte(pkt)))
	}
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	var got []string
	for {
		pkt, err := r.ReadPacket()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, string(pkt))
	}
	assert.Equal(t, []string{"a", "bc", "def"}, got)
}
