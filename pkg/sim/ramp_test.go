package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRampAdvance(t *testing.T) {
	testCases := []struct {
		name   string
		from   float64
		speed  float64
		accel  float64
		after  time.Duration
		expect float64
	}{
		{
			name:   "no accel",
			speed:  1,
			after:  time.Second,
			expect: 1,
		},
		{
			name:   "no accel reverse",
			speed:  -1,
			after:  time.Second,
			expect: -1,
		},
		{
			name:   "before accel ends",
			speed:  2,
			accel:  1,
			after:  time.Second,
			expect: 0.5,
		},
		{
			name:   "at accel ends",
			speed:  2,
			accel:  1,
			after:  2 * time.Second,
			expect: 2,
		},
		{
			name:   "after accel ends",
			speed:  2,
			accel:  1,
			after:  3 * time.Second,
			expect: 4,
		},
		{
			name:   "reduce speed before accel ends",
			from:   2,
			speed:  0,
			accel:  1,
			after:  time.Second,
			expect: 1.5,
		},
		{
			name:   "reduce speed at accel ends",
			from:   2,
			speed:  0,
			accel:  1,
			after:  2 * time.Second,
			expect: 2,
		},
		{
			name:   "reduce speed after accel ends",
			from:   2,
			speed:  0,
			accel:  1,
			after:  3 * time.Second,
			expect: 2,
		},
		{
			name:   "reduce speed after accel ends and reverse",
			from:   2,
			speed:  -1,
			accel:  1,
			after:  4 * time.Second,
			expect: 0.5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &ramp{speed: tc.from, desired: tc.speed, accel: tc.accel}
			require.Equal(t, tc.expect, r.advance(tc.after.Seconds()))
		})
	}
}

func TestRampInSteps(t *testing.T) {
	whole := &ramp{desired: 2, accel: 1}
	stepped := &ramp{desired: 2, accel: 1}
	var dist float64
	for i := 0; i < 300; i++ {
		dist += stepped.advance(0.01)
	}
	require.InDelta(t, whole.advance(3), dist, 1e-9)
}
