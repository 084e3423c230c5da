package canbus

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.einride.tech/can"
	"go.uber.org/multierr"

	"github.com/robotalks/motion.go/pkg/drive"
)

type bus struct {
	frames []can.Frame
	err    error
}

func (b *bus) TransmitFrame(_ context.Context, f can.Frame) error {
	b.frames = append(b.frames, f)
	return b.err
}

func TestCommandRoundTrip(t *testing.T) {
	f := EncodeCommand(0x120, ModeVoltage, -11500, drive.Coast)
	assert.Equal(t, uint32(0x120), f.ID)
	assert.Equal(t, uint8(frameLength), f.Length)
	mode, setpoint, brake := DecodeCommand(f)
	assert.Equal(t, ModeVoltage, mode)
	assert.Equal(t, -11500.0, setpoint)
	assert.Equal(t, drive.Coast, brake)

	_, setpoint, _ = DecodeCommand(EncodeCommand(1, ModeVelocity, 1e9, drive.Coast))
	assert.Equal(t, 32767.0, setpoint)
}

func TestMotors(t *testing.T) {
	b := &bus{}
	m := &Motors{Transmitter: b, BaseID: 0x200}
	require.NoError(t, m.SetVoltage(6, -3.25))
	require.NoError(t, m.SetVelocity(50, 12.5))
	require.NoError(t, m.Stop(drive.Brake))
	require.Len(t, b.frames, 6)

	expect := []struct {
		id       uint32
		mode     uint64
		setpoint float64
		brake    drive.BrakeMode
	}{
		{0x200, ModeVoltage, 6000, drive.Coast},
		{0x201, ModeVoltage, -3250, drive.Coast},
		{0x200, ModeVelocity, 5000, drive.Coast},
		{0x201, ModeVelocity, 1250, drive.Coast},
		{0x200, ModeStop, 0, drive.Brake},
		{0x201, ModeStop, 0, drive.Brake},
	}
	for i, e := range expect {
		mode, setpoint, brake := DecodeCommand(b.frames[i])
		assert.Equal(t, e.id, b.frames[i].ID)
		assert.Equal(t, e.mode, mode)
		assert.Equal(t, e.setpoint, setpoint)
		assert.Equal(t, e.brake, brake)
	}
}

func TestMotorsErrors(t *testing.T) {
	b := &bus{err: errors.New("bus off")}
	m := &Motors{Transmitter: b, BaseID: 0x200}
	err := m.SetVoltage(1, 1)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Len(t, b.frames, 2)
}
