package control

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func TestPIDSettle(t *testing.T) {
	clk := clock.NewMock()
	pid := NewPID(Gains(1, 0, 0).WithSettle(0.5, 3), clk)
	require.False(t, pid.IsSettled())

	for i := 0; i < 2; i++ {
		clk.Add(20 * time.Millisecond)
		pid.Compute(0.1)
		require.False(t, pid.IsSettled(), "frame %d", i)
	}
	clk.Add(20 * time.Millisecond)
	pid.Compute(0.1)
	require.True(t, pid.IsSettled())

	// leaving the band resets the window.
	clk.Add(20 * time.Millisecond)
	pid.Compute(2)
	require.False(t, pid.IsSettled())
	clk.Add(20 * time.Millisecond)
	pid.Compute(0.2)
	require.False(t, pid.IsSettled())

	pid.Reset()
	require.False(t, pid.IsSettled())
	require.Zero(t, pid.Error())
}

func TestPIDTerms(t *testing.T) {
	testCases := []struct {
		name     string
		errs     []float64
		integral float64
		deriv    float64
	}{
		{
			name:     "first sample",
			errs:     []float64{4},
			integral: 0.5 * (4 + 4) * 0.1,
			deriv:    0,
		},
		{
			name:     "trapezoid",
			errs:     []float64{4, 2},
			integral: 0.5*(4+4)*0.1 + 0.5*(4+2)*0.1,
			deriv:    (2 - 4) / 0.1,
		},
		{
			name:     "sign crossing resets integral",
			errs:     []float64{4, 2, -1},
			integral: 0,
			deriv:    (-1 - 2) / 0.1,
		},
		{
			name:     "negative accumulates",
			errs:     []float64{-1, -3},
			integral: 0.5*(-1-1)*0.1 + 0.5*(-1-3)*0.1,
			deriv:    (-3 + 1) / 0.1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clk := clock.NewMock()
			pid := NewPID(Gains(2, 3, 5), clk)
			for _, e := range tc.errs {
				clk.Add(100 * time.Millisecond)
				pid.Compute(e)
			}
			last := tc.errs[len(tc.errs)-1]
			require.InDelta(t, tc.integral, pid.Integral(), 1e-9)
			require.InDelta(t, tc.deriv, pid.Derivative(), 1e-9)
			require.InDelta(t, 2*last, pid.ValueOf(true, false, false), 1e-9)
			require.InDelta(t, 2*last+3*tc.integral+5*tc.deriv, pid.Value(), 1e-9)
		})
	}
}

func TestPIDZeroElapsed(t *testing.T) {
	clk := clock.NewMock()
	pid := NewPID(Gains(1, 0, 1), clk)
	pid.Compute(1)
	pid.Compute(3)
	require.Zero(t, pid.Derivative())
	require.InDelta(t, 3, pid.Value(), 1e-12)
}

func TestPIDSetIntegral(t *testing.T) {
	clk := clock.NewMock()
	pid := NewPID(Gains(0, 2, 0), clk)
	clk.Add(time.Second)
	pid.Compute(1)
	pid.SetIntegral(10)
	require.InDelta(t, 20, pid.Value(), 1e-12)
}
