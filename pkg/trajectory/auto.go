package trajectory

import (
	"math"

	"github.com/robotalks/motion.go/pkg/geom"
	"github.com/robotalks/motion.go/pkg/spline"
)

const (
	// DefaultAutoResolution is the number of constraint regions AutoConstraints
	// splits a path into.
	DefaultAutoResolution = 30
	// curvature is probed at this many sub-steps inside each region.
	autoSubSteps = 10
	// margin on the wheel speed needed for the turn.
	turnMargin = 1.2
)

// AutoOptions configures AutoConstraints.
type AutoOptions struct {
	MinVelocity float64 `yaml:"min_velocity"`
	MaxVelocity float64 `yaml:"max_velocity"`
	MaxAccel    float64 `yaml:"max_accel"`
	MaxDecel    float64 `yaml:"max_decel"`
	// TrackWidth is the distance between the wheels, in path units.
	TrackWidth float64 `yaml:"track_width"`
	Resolution int     `yaml:"resolution"`
}

// AutoConstraints slows the robot down where the path curves sharply so
// the outer wheel stays within MaxVelocity. It returns a Profiler covering
// the sampled path with one constraint per region; Calculate is not called.
func AutoConstraints(sampler *spline.Sampler, opts AutoOptions) *Profiler {
	res := opts.Resolution
	if res <= 0 {
		res = DefaultAutoResolution
	}
	s := sampler.Spline()
	dLo, dHi := sampler.DistanceRange()
	profiler := NewProfiler(dHi - dLo)
	for i := 0; i < res; i++ {
		var k float64
		for j := 0; j < autoSubSteps; j++ {
			d := geom.RangeMap(float64(i)+float64(j)/autoSubSteps, 0, float64(res), dLo, dHi)
			k = math.Max(k, math.Abs(s.Curvature(sampler.DistanceToParam(d))))
		}
		turning := opts.MaxVelocity * k * opts.TrackWidth / 2 * turnMargin
		profiler.AddConstraint(
			geom.RangeMap(float64(i), 0, float64(res), 0, dHi-dLo),
			geom.Clamp(opts.MaxVelocity-turning, opts.MinVelocity, opts.MaxVelocity),
			opts.MaxAccel,
			opts.MaxDecel,
		)
	}
	return profiler
}
