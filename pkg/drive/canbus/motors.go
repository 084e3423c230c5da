// Package canbus drives the motor controllers of a differential drive over
// a CAN bus.
//
// Each side has its own command frame (the left side at BaseID, the right
// side at BaseID+1) laid out little endian as:
//
//	bits  0..7   mode (0 stop, 1 voltage, 2 velocity)
//	bits  8..23  signed setpoint, millivolts or hundredths of a percent
//	bits 24..31  brake mode for stop
package canbus

import (
	"context"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
	"go.uber.org/multierr"

	"github.com/robotalks/motion.go/pkg/drive"
)

// Command modes.
const (
	ModeStop     uint64 = 0
	ModeVoltage  uint64 = 1
	ModeVelocity uint64 = 2
)

const (
	frameLength = 4

	voltageScale  = 1000
	velocityScale = 100
)

// FrameTransmitter sends CAN frames.
type FrameTransmitter interface {
	TransmitFrame(context.Context, can.Frame) error
}

// Motors implements drive.Motors over CAN.
type Motors struct {
	Transmitter FrameTransmitter
	BaseID      uint32
	// Timeout bounds each command.
	Timeout time.Duration
}

// Dial opens a SocketCAN interface (e.g. "can0").
func Dial(ctx context.Context, iface string, baseID uint32) (*Motors, func() error, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "socketcan dial %s", iface)
	}
	glog.Infof("canbus: motors on %s at 0x%03x", iface, baseID)
	return &Motors{
		Transmitter: socketcan.NewTransmitter(conn),
		BaseID:      baseID,
		Timeout:     20 * time.Millisecond,
	}, conn.Close, nil
}

// EncodeCommand builds the command frame for one side.
func EncodeCommand(id uint32, mode uint64, setpoint float64, brake drive.BrakeMode) can.Frame {
	f := can.Frame{ID: id, Length: frameLength}
	raw := int64(math.Round(setpoint))
	if raw > math.MaxInt16 {
		raw = math.MaxInt16
	} else if raw < math.MinInt16 {
		raw = math.MinInt16
	}
	f.Data.SetUnsignedBitsLittleEndian(0, 8, mode)
	f.Data.SetSignedBitsLittleEndian(8, 16, raw)
	f.Data.SetUnsignedBitsLittleEndian(24, 8, uint64(brake))
	return f
}

// DecodeCommand is the reverse of EncodeCommand.
func DecodeCommand(f can.Frame) (mode uint64, setpoint float64, brake drive.BrakeMode) {
	return f.Data.UnsignedBitsLittleEndian(0, 8),
		float64(f.Data.SignedBitsLittleEndian(8, 16)),
		drive.BrakeMode(f.Data.UnsignedBitsLittleEndian(24, 8))
}

func (m *Motors) send(left, right can.Frame) error {
	ctx := context.Background()
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	err := multierr.Combine(
		errors.Wrap(m.Transmitter.TransmitFrame(ctx, left), "left"),
		errors.Wrap(m.Transmitter.TransmitFrame(ctx, right), "right"),
	)
	if err != nil {
		glog.Errorf("canbus: %v", err)
	}
	return err
}

// SetVoltage implements drive.Motors.
func (m *Motors) SetVoltage(left, right float64) error {
	return m.send(
		EncodeCommand(m.BaseID, ModeVoltage, left*voltageScale, drive.Coast),
		EncodeCommand(m.BaseID+1, ModeVoltage, right*voltageScale, drive.Coast),
	)
}

// SetVelocity implements drive.Motors.
func (m *Motors) SetVelocity(leftPct, rightPct float64) error {
	return m.send(
		EncodeCommand(m.BaseID, ModeVelocity, leftPct*velocityScale, drive.Coast),
		EncodeCommand(m.BaseID+1, ModeVelocity, rightPct*velocityScale, drive.Coast),
	)
}

// Stop implements drive.Motors.
func (m *Motors) Stop(mode drive.BrakeMode) error {
	return m.send(
		EncodeCommand(m.BaseID, ModeStop, 0, mode),
		EncodeCommand(m.BaseID+1, ModeStop, 0, mode),
	)
}
