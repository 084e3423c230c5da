package drive

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mode        string
	left, right float64
	brake       BrakeMode
}

func (r *recorder) SetVoltage(l, rt float64) error {
	r.mode, r.left, r.right = "voltage", l, rt
	return nil
}

func (r *recorder) SetVelocity(l, rt float64) error {
	r.mode, r.left, r.right = "velocity", l, rt
	return nil
}

func (r *recorder) Stop(m BrakeMode) error {
	r.mode, r.brake = "stop", m
	return nil
}

func TestGeometry(t *testing.T) {
	g := DefaultGeometry()
	assert.Equal(t, 6.75, g.HalfTrack())
	// a tile per second at 100% of 600rpm through 84:60 on 4" wheels.
	expect := 23.6 / (4 * math.Pi) * 60 * (84.0 / 60.0) / 600 * 100
	assert.InDelta(t, expect, g.TilesPerSecondToPct(), 1e-12)
	// 100% is exactly MaxWheelSpeed.
	assert.InDelta(t, 100, g.MaxWheelSpeed()/g.TileLength*g.TilesPerSecondToPct(), 1e-9)
	assert.Equal(t, 6.0, PctToVolt(50))
}

func TestDifferential(t *testing.T) {
	testCases := []struct {
		name        string
		run         func(*Differential) error
		mode        string
		left, right float64
	}{
		{
			name: "pct within range",
			run:  func(d *Differential) error { return d.DrivePct(50, -20) },
			mode: "velocity", left: 50, right: -20,
		},
		{
			name: "pct scaled",
			run:  func(d *Differential) error { return d.DrivePct(200, 100) },
			mode: "velocity", left: 100, right: 50,
		},
		{
			name: "voltage clamped",
			run:  func(d *Differential) error { return d.DriveVoltage(100, 50, 10) },
			mode: "voltage", left: 10, right: 6,
		},
		{
			name: "voltage scaled then clamped",
			run:  func(d *Differential) error { return d.DriveVoltage(-400, 200, 10) },
			mode: "voltage", left: -10, right: 6,
		},
		{
			name: "linegular straight",
			run:  func(d *Differential) error { return d.DriveLinegular(40, 0) },
			mode: "velocity", left: 40, right: 40,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &recorder{}
			require.NoError(t, tc.run(NewDifferential(r, DefaultGeometry())))
			assert.Equal(t, tc.mode, r.mode)
			assert.InDelta(t, tc.left, r.left, 1e-9)
			assert.InDelta(t, tc.right, r.right, 1e-9)
		})
	}
}

func TestLinegularTurn(t *testing.T) {
	r := &recorder{}
	d := NewDifferential(r, DefaultGeometry())
	require.NoError(t, d.DriveLinegular(20, 1))
	// counter-clockwise: right side faster by the same amount the left slows.
	assert.True(t, r.right > r.left)
	assert.InDelta(t, 40, r.left+r.right, 1e-9)
	rot := 6.75 / 23.6 * d.Geometry.TilesPerSecondToPct()
	assert.InDelta(t, 20+rot, r.right, 1e-9)

	require.NoError(t, d.Stop(Hold))
	assert.Equal(t, "stop", r.mode)
	assert.Equal(t, Hold, r.brake)
	assert.Equal(t, "hold", Hold.String())
}

type brokenMotors struct{ recorder }

func (b *brokenMotors) SetVoltage(l, rt float64) error {
	b.recorder.SetVoltage(l, rt)
	return errors.New("bus off")
}

func TestTee(t *testing.T) {
	a, b := &recorder{}, &brokenMotors{}
	tee := Tee{b, a}
	err := tee.SetVoltage(3, -3)
	assert.EqualError(t, err, "bus off")
	assert.Equal(t, "voltage", a.mode)
	assert.Equal(t, -3.0, b.right)

	require.NoError(t, tee.SetVelocity(10, 20))
	assert.Equal(t, 20.0, a.right)
	require.NoError(t, tee.Stop(Hold))
	assert.Equal(t, Hold, a.brake)
	assert.Equal(t, Hold, b.brake)
}
