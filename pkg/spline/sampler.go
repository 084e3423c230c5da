package spline

import (
	"sort"

	"github.com/robotalks/motion.go/pkg/geom"
)

// DefaultResolutionPerSegment is the number of samples per segment used
// when a Sampler is created with a non-positive resolution.
const DefaultResolutionPerSegment = 7

// Sample is one entry of the arc-length table.
type Sample struct {
	Param    float64
	Distance float64
}

// Sampler maps between spline parameter and distance travelled along the
// spline. Distances are sums of chords between uniformly spaced samples,
// so accuracy grows with resolution.
type Sampler struct {
	spline  *Spline
	samples []Sample
}

// NewSampler samples s at resolution uniform parameter steps.
func NewSampler(s *Spline, resolution int) *Sampler {
	if resolution <= 0 {
		resolution = s.Len() * DefaultResolutionPerSegment
	}
	if resolution <= 0 {
		resolution = 1
	}
	t0, t1 := s.ParamRange()
	samples := make([]Sample, 0, resolution+1)
	samples = append(samples, Sample{Param: t0})
	prev := s.Position(t0)
	var length float64
	for i := 1; i <= resolution; i++ {
		t := geom.RangeMap(float64(i), 0, float64(resolution), t0, t1)
		cur := s.Position(t)
		length += cur.Sub(prev).Norm()
		samples = append(samples, Sample{Param: t, Distance: length})
		prev = cur
	}
	return &Sampler{spline: s, samples: samples}
}

// Spline returns the sampled spline.
func (s *Sampler) Spline() *Spline {
	return s.spline
}

// Samples returns the table.
func (s *Sampler) Samples() []Sample {
	return s.samples
}

// ParamRange returns the parameter range covered by the table.
func (s *Sampler) ParamRange() (float64, float64) {
	return s.samples[0].Param, s.samples[len(s.samples)-1].Param
}

// DistanceRange returns the distance range covered by the table.
func (s *Sampler) DistanceRange() (float64, float64) {
	return s.samples[0].Distance, s.samples[len(s.samples)-1].Distance
}

// TotalDistance returns the length of the sampled path.
func (s *Sampler) TotalDistance() float64 {
	lo, hi := s.DistanceRange()
	return hi - lo
}

// ParamToDistance converts a parameter into distance, clamped to the table.
func (s *Sampler) ParamToDistance(t float64) float64 {
	first, last := s.samples[0], s.samples[len(s.samples)-1]
	if t <= first.Param {
		return first.Distance
	}
	if t >= last.Param {
		return last.Distance
	}
	i := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].Param >= t })
	a, b := s.samples[i-1], s.samples[i]
	return geom.RangeMap(t, a.Param, b.Param, a.Distance, b.Distance)
}

// DistanceToParam converts a distance into parameter, clamped to the table.
func (s *Sampler) DistanceToParam(d float64) float64 {
	first, last := s.samples[0], s.samples[len(s.samples)-1]
	if d <= first.Distance {
		return first.Param
	}
	if d >= last.Distance {
		return last.Param
	}
	i := sort.Search(len(s.samples), func(i int) bool { return s.samples[i].Distance >= d })
	a, b := s.samples[i-1], s.samples[i]
	return geom.RangeMap(d, a.Distance, b.Distance, a.Param, b.Param)
}
