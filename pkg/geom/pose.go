package geom

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/geo/r2"
)

// Pose is a 2D position with a polar heading in degrees.
type Pose struct {
	X, Y    float64
	Heading float64
}

// PoseAt creates a Pose.
func PoseAt(x, y, heading float64) Pose {
	return Pose{X: x, Y: y, Heading: heading}
}

// Point returns the position part.
func (p Pose) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// HeadingRadians returns the heading in radians.
func (p Pose) HeadingRadians() float64 {
	return ToRadians(p.Heading)
}

// FieldHeading returns the heading as a field angle.
func (p Pose) FieldHeading() float64 {
	return SwapFieldPolar(p.Heading)
}

// Add combines two poses component-wise.
func (p Pose) Add(o Pose) Pose {
	return Pose{X: p.X + o.X, Y: p.Y + o.Y, Heading: p.Heading + o.Heading}
}

// Sub subtracts o from p component-wise.
func (p Pose) Sub(o Pose) Pose {
	return Pose{X: p.X - o.X, Y: p.Y - o.Y, Heading: p.Heading - o.Heading}
}

// RotateLinearBy rotates (X, Y) by r radians using the rotation matrix.
// Heading is unchanged.
func (p Pose) RotateLinearBy(r float64) Pose {
	sin, cos := math.Sincos(r)
	return Pose{
		X:       p.X*cos - p.Y*sin,
		Y:       p.X*sin + p.Y*cos,
		Heading: p.Heading,
	}
}

// RotateExponentiallyBy applies the pose exponential for a heading change
// of r radians, integrating (X, Y) along the arc instead of a chord.
func (p Pose) RotateExponentiallyBy(r float64) Pose {
	s, c := Sinc(r), Cosm1X(r)
	return Pose{
		X:       p.X*s + p.Y*c,
		Y:       -p.X*c + p.Y*s,
		Heading: p.Heading,
	}
}

// DistanceTo returns the Euclidean distance between positions.
func (p Pose) DistanceTo(o Pose) float64 {
	return p.Point().Sub(o.Point()).Norm()
}

// String implements fmt.Stringer.
func (p Pose) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.2f°)", p.X, p.Y, p.Heading)
}

// AtomicPose holds a Pose which is written by one goroutine and read
// by many. Readers always observe a complete Pose.
type AtomicPose struct {
	lock sync.RWMutex
	pose Pose
}

// Load returns the current Pose.
func (a *AtomicPose) Load() Pose {
	a.lock.RLock()
	defer a.lock.RUnlock()
	return a.pose
}

// Store replaces the current Pose.
func (a *AtomicPose) Store(p Pose) {
	a.lock.Lock()
	a.pose = p
	a.lock.Unlock()
}
