package spline

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// Segment is one cubic polynomial piece defined by 4 control points.
// Coefficients are derived once on construction.
type Segment struct {
	basis  Basis
	points [4]r2.Point
	// coeffs is the 4x2 power-basis coefficient matrix:
	// Characteristic · Storing · Points.
	coeffs *mat.Dense
}

// NewSegment creates a Segment. It fails with ErrUnknownBasis.
func NewSegment(basis Basis, points [4]r2.Point) (*Segment, error) {
	m, err := basis.matrices()
	if err != nil {
		return nil, err
	}
	return newSegment(basis, m, points), nil
}

func newSegment(basis Basis, m basisMatrices, points [4]r2.Point) *Segment {
	raw := mat.NewDense(4, 2, nil)
	for i, p := range points {
		raw.Set(i, 0, p.X)
		raw.Set(i, 1, p.Y)
	}
	var stored, coeffs mat.Dense
	stored.Mul(m.storing, raw)
	coeffs.Mul(m.characteristic, &stored)
	return &Segment{basis: basis, points: points, coeffs: &coeffs}
}

// Basis returns the basis family.
func (s *Segment) Basis() Basis {
	return s.basis
}

// ControlPoints returns the raw control points.
func (s *Segment) ControlPoints() [4]r2.Point {
	return s.points
}

func (s *Segment) eval(w [4]float64) r2.Point {
	var p r2.Point
	for i, f := range w {
		p.X += f * s.coeffs.At(i, 0)
		p.Y += f * s.coeffs.At(i, 1)
	}
	return p
}

// Position evaluates the segment at t ∈ [0, 1].
func (s *Segment) Position(t float64) r2.Point {
	return s.eval([4]float64{1, t, t * t, t * t * t})
}

// Velocity evaluates the first derivative at t.
func (s *Segment) Velocity(t float64) r2.Point {
	return s.eval([4]float64{0, 1, 2 * t, 3 * t * t})
}

// Acceleration evaluates the second derivative at t.
func (s *Segment) Acceleration(t float64) r2.Point {
	return s.eval([4]float64{0, 0, 2, 6 * t})
}

// Reversed returns a segment of the same basis with control points in
// reverse order.
func (s *Segment) Reversed() *Segment {
	p := s.points
	return s.sibling([4]r2.Point{p[3], p[2], p[1], p[0]})
}

// sibling creates a segment of the same basis, which is known to be valid.
func (s *Segment) sibling(points [4]r2.Point) *Segment {
	return newSegment(s.basis, bases[s.basis], points)
}
