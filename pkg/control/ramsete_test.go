package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/geom"
)

func TestRamseteIdentityAtZeroError(t *testing.T) {
	testCases := []struct {
		name string
		pose geom.Pose
		v, w float64
	}{
		{"straight", geom.PoseAt(0, 0, 90), 1.2, 0},
		{"turning", geom.PoseAt(1, -2, 30), 0.8, 0.5},
		{"negative w", geom.PoseAt(-3, 4, -135), 2, -1.5},
	}
	r := NewRamsete()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lin, ang := r.Track(tc.pose, tc.pose, tc.v, tc.w)
			require.InDelta(t, tc.v, lin, 1e-12)
			require.InDelta(t, tc.w, ang, 1e-12)
		})
	}
}

func TestRamseteLocalError(t *testing.T) {
	// facing +Y (polar 90): a target ahead is a positive look error.
	e := LocalError(geom.PoseAt(0, 0, 90), geom.PoseAt(0, 2, 90))
	require.InDelta(t, 0, e.X, 1e-12)
	require.InDelta(t, 2, e.Y, 1e-12)

	// facing +X (polar 0): a target at +X is ahead, one at -Y is to the right.
	e = LocalError(geom.PoseAt(0, 0, 0), geom.PoseAt(3, -1, 0))
	require.InDelta(t, 1, e.X, 1e-12)
	require.InDelta(t, 3, e.Y, 1e-12)
}

func TestRamseteCorrectsErrors(t *testing.T) {
	r := NewRamsete()
	actual := geom.PoseAt(0, 0, 90)

	// target ahead speeds up.
	lin, _ := r.Track(actual, geom.PoseAt(0, 0.5, 90), 1, 0)
	require.True(t, lin > 1)

	// target heading to the left turns counter-clockwise.
	_, ang := r.Track(actual, geom.PoseAt(0, 0, 100), 1, 0)
	require.True(t, ang > 0)

	// target to the right turns clockwise.
	_, ang = r.Track(actual, geom.PoseAt(0.3, 0, 90), 1, 0)
	require.True(t, ang < 0)
}

func TestRamseteReversed(t *testing.T) {
	r := NewRamsete().SetReversed(true)
	p := geom.PoseAt(0, 0, -90)
	lin, ang := r.Track(p, p, 1.5, 0.2)
	require.InDelta(t, -1.5, lin, 1e-12)
	require.InDelta(t, 0.2, ang, 1e-12)
}

func TestRamseteBootstrap(t *testing.T) {
	r := NewRamsete()
	lin, ang := r.TrackPose(geom.PoseAt(0, 0, 90), geom.PoseAt(0, 1, 90))
	require.True(t, lin > 0)
	require.InDelta(t, 0, ang, 1e-12)

	lin, ang = r.TrackLinear(geom.PoseAt(0, 0, 90), geom.PoseAt(0, 0, 90), 2)
	require.InDelta(t, 2, lin, 1e-12)
	require.InDelta(t, 0, ang, 1e-12)
	require.False(t, math.IsNaN(lin))
}
