package spline

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/robotalks/motion.go/pkg/geom"
)

var (
	// ErrTooFewPoints indicates fewer than 4 points were given to build
	// the first segment.
	ErrTooFewPoints = errors.New("at least 4 points required")
	// ErrEmpty indicates an operation requires at least one segment.
	ErrEmpty = errors.New("spline has no segments")
)

// Spline is a chain of cubic segments evaluated with a global parameter
// t ∈ [0, N] where N is the number of segments. Segment i covers
// [i, i+1]. Parameters outside the range clamp to the end points.
type Spline struct {
	segments []*Segment
}

// New creates a Spline from segments.
func New(segments ...*Segment) *Spline {
	return &Spline{segments: segments}
}

// FromAutoTangent builds a spline where each point after the 4th adds a
// segment made of the previous segment's last 3 points and the new point.
func FromAutoTangent(basis Basis, points ...r2.Point) (*Spline, error) {
	if len(points) < 4 {
		return nil, errors.Wrapf(ErrTooFewPoints, "got %d", len(points))
	}
	first, err := NewSegment(basis, [4]r2.Point{points[0], points[1], points[2], points[3]})
	if err != nil {
		return nil, err
	}
	s := New(first)
	for _, p := range points[4:] {
		if err := s.Extend(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Attach appends a segment.
func (s *Spline) Attach(seg *Segment) *Spline {
	s.segments = append(s.segments, seg)
	return s
}

// Extend appends a segment sliding the 4-point window by one point.
func (s *Spline) Extend(p r2.Point) error {
	if len(s.segments) == 0 {
		return ErrEmpty
	}
	last := s.segments[len(s.segments)-1]
	pts := last.ControlPoints()
	s.Attach(last.sibling([4]r2.Point{pts[1], pts[2], pts[3], p}))
	return nil
}

// Len returns the number of segments.
func (s *Spline) Len() int {
	return len(s.segments)
}

// Segments returns the segments.
func (s *Spline) Segments() []*Segment {
	return s.segments
}

// ParamRange returns the parameter domain [0, N].
func (s *Spline) ParamRange() (float64, float64) {
	return 0, float64(len(s.segments))
}

// locate maps a global parameter to a segment and local parameter.
func (s *Spline) locate(t float64) (*Segment, float64) {
	if len(s.segments) == 0 {
		return nil, 0
	}
	id := math.Floor(t)
	switch {
	case id < 0:
		return s.segments[0], 0
	case id >= float64(len(s.segments)):
		return s.segments[len(s.segments)-1], 1
	}
	return s.segments[int(id)], t - id
}

// Position evaluates the position at t.
func (s *Spline) Position(t float64) r2.Point {
	seg, lt := s.locate(t)
	if seg == nil {
		return r2.Point{}
	}
	return seg.Position(lt)
}

// Velocity evaluates the first derivative at t.
func (s *Spline) Velocity(t float64) r2.Point {
	seg, lt := s.locate(t)
	if seg == nil {
		return r2.Point{}
	}
	return seg.Velocity(lt)
}

// Acceleration evaluates the second derivative at t.
func (s *Spline) Acceleration(t float64) r2.Point {
	seg, lt := s.locate(t)
	if seg == nil {
		return r2.Point{}
	}
	return seg.Acceleration(lt)
}

// Curvature returns the signed curvature at t, positive when turning
// counter-clockwise. It is 0 where the velocity vanishes.
func (s *Spline) Curvature(t float64) float64 {
	v, a := s.Velocity(t), s.Acceleration(t)
	denom := math.Pow(v.X*v.X+v.Y*v.Y, 1.5)
	if denom == 0 {
		return 0
	}
	return v.Cross(a) / denom
}

// PolarAngle returns the direction of travel at t in radians.
func (s *Spline) PolarAngle(t float64) float64 {
	v := s.Velocity(t)
	return math.Atan2(v.Y, v.X)
}

// PoseAt combines position and direction of travel. With reverse the
// heading is flipped by 180°, for driving the path backwards.
func (s *Spline) PoseAt(t float64, reverse bool) geom.Pose {
	p := s.Position(t)
	heading := geom.ToDegrees(s.PolarAngle(t))
	if reverse {
		heading += 180
	}
	return geom.Pose{X: p.X, Y: p.Y, Heading: geom.NormalizeDegrees(heading)}
}

// Reversed returns the spline traversed from the end to the start.
func (s *Spline) Reversed() *Spline {
	n := len(s.segments)
	r := &Spline{segments: make([]*Segment, n)}
	for i, seg := range s.segments {
		r.segments[n-1-i] = seg.Reversed()
	}
	return r
}
