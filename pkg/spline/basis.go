package spline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Basis selects the blending convention of a cubic segment.
type Basis int

// Supported basis families.
const (
	Bezier Basis = iota
	Hermite
	CatmullRom
	BSpline
)

// basisMatrices is the constant matrix pair of a Basis.
// characteristic maps power-basis rows [1 t t² t³] onto stored points;
// storing converts 4 raw control points into the stored representation.
type basisMatrices struct {
	characteristic *mat.Dense
	storing        *mat.Dense
}

var identity4 = mat.NewDense(4, 4, []float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
})

var bases = map[Basis]basisMatrices{
	Bezier: {
		characteristic: mat.NewDense(4, 4, []float64{
			1, 0, 0, 0,
			-3, 3, 0, 0,
			3, -6, 3, 0,
			-1, 3, -3, 1,
		}),
		storing: identity4,
	},
	Hermite: {
		characteristic: mat.NewDense(4, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			-3, -2, 3, -1,
			2, 1, -2, 1,
		}),
		// (P0, P1, P2, P3) -> (P0, P1-P0, P2, P3-P2): endpoints and tangents.
		storing: mat.NewDense(4, 4, []float64{
			1, 0, 0, 0,
			-1, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, -1, 1,
		}),
	},
	CatmullRom: {
		characteristic: scaled(0.5, []float64{
			0, 2, 0, 0,
			-1, 0, 1, 0,
			2, -5, 4, -1,
			-1, 3, -3, 1,
		}),
		storing: identity4,
	},
	BSpline: {
		characteristic: scaled(1.0/6.0, []float64{
			1, 4, 1, 0,
			-3, 0, 3, 0,
			3, -6, 3, 0,
			-1, 3, -3, 1,
		}),
		storing: identity4,
	},
}

func scaled(f float64, data []float64) *mat.Dense {
	m := mat.NewDense(4, 4, data)
	m.Scale(f, m)
	return m
}

// ErrUnknownBasis indicates a Basis outside the supported families.
var ErrUnknownBasis = errors.New("unknown spline basis")

func (b Basis) matrices() (basisMatrices, error) {
	m, ok := bases[b]
	if !ok {
		return m, errors.Wrapf(ErrUnknownBasis, "basis %d", int(b))
	}
	return m, nil
}

// String implements fmt.Stringer.
func (b Basis) String() string {
	switch b {
	case Bezier:
		return "bezier"
	case Hermite:
		return "hermite"
	case CatmullRom:
		return "catmull-rom"
	case BSpline:
		return "b-spline"
	}
	return fmt.Sprintf("basis(%d)", int(b))
}

// ParseBasis parses the name produced by Basis.String.
func ParseBasis(name string) (Basis, error) {
	switch strings.ToLower(name) {
	case "bezier":
		return Bezier, nil
	case "hermite":
		return Hermite, nil
	case "catmull-rom", "catmullrom":
		return CatmullRom, nil
	case "b-spline", "bspline":
		return BSpline, nil
	}
	return 0, errors.Wrapf(ErrUnknownBasis, "%q", name)
}
