package control

import (
	"math"

	"github.com/robotalks/motion.go/pkg/geom"
)

// Defaults of Ramsete.
const (
	// DefaultRamseteB is 2.0 rad²/m² expressed per tile².
	DefaultRamseteB    = 0.743
	DefaultRamseteZeta = 0.7

	// bootstrapScalar scales pose errors into a tiny desired velocity
	// when the caller has none.
	bootstrapScalar = 0.0001
)

// Ramsete is the nonlinear path-tracking law. It is stateless apart from
// the driving direction.
type Ramsete struct {
	B    float64
	Zeta float64
	// Reversed drives the path backwards.
	Reversed bool
}

// NewRamsete creates a Ramsete with default gains.
func NewRamsete() *Ramsete {
	return &Ramsete{B: DefaultRamseteB, Zeta: DefaultRamseteZeta}
}

// SetReversed sets driving direction.
func (r *Ramsete) SetReversed(reversed bool) *Ramsete {
	r.Reversed = reversed
	return r
}

// LocalError returns desired-actual rotated into the robot frame:
// X is the lateral (right) error, Y the longitudinal (look) error.
func LocalError(actual, desired geom.Pose) geom.Pose {
	return desired.Sub(actual).RotateLinearBy(geom.ToRadians(90 - actual.Heading))
}

// TrackPose computes the command with no desired velocity, bootstrapping
// from the pose error.
func (r *Ramsete) TrackPose(actual, desired geom.Pose) (linear, angular float64) {
	e := LocalError(actual, desired)
	return r.Track(actual, desired, bootstrapScalar*e.Y, bootstrapScalar*geom.ToRadians(e.Heading))
}

// TrackLinear computes the command with only a desired linear velocity.
func (r *Ramsete) TrackLinear(actual, desired geom.Pose, v float64) (linear, angular float64) {
	e := LocalError(actual, desired)
	return r.Track(actual, desired, v, bootstrapScalar*geom.ToRadians(e.Heading))
}

// Track computes (linear, angular) velocity from the pose error and the
// desired velocities. w is in radians per second.
func (r *Ramsete) Track(actual, desired geom.Pose, v, w float64) (linear, angular float64) {
	e := LocalError(actual, desired)
	direction := 1.0
	if r.Reversed {
		direction = -1
	}
	v = math.Abs(v) * direction
	eTheta := geom.ToRadians(geom.NormalizeDegrees(e.Heading))

	k := 2 * r.Zeta * math.Sqrt(w*w+r.B*v*v)
	linear = v*math.Cos(eTheta) + k*e.Y
	angular = w + k*eTheta - r.B*v*geom.Sinc(eTheta)*e.X
	return
}
