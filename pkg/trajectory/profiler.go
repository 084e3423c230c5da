package trajectory

import (
	"math"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/motion.go/pkg/geom"
)

const (
	// distances closer than this coalesce when merging.
	coincidentDistance = 1e-7
	// velocities closer than this prefer the braking candidate.
	equalVelocity = 1e-5
)

var (
	// ErrInfeasible indicates the constraints leave a stretch of the path
	// with neither velocity nor acceleration, which can never be crossed.
	ErrInfeasible = errors.New("infeasible trajectory")
	// ErrNoConstraints indicates Calculate was called without constraints.
	ErrNoConstraints = errors.New("no motion constraints")
)

// Constraint limits motion from Start until the next constraint's Start
// (or the end of the path).
type Constraint struct {
	Start       float64
	MaxVelocity float64
	MaxAccel    float64
	MaxDecel    float64
}

// Node is a breakpoint on the distance axis.
type Node struct {
	Distance float64
	Velocity float64
	Accel    float64
}

// Motion is the kinematic state at a point in time.
type Motion struct {
	Time     float64
	Distance float64
	Velocity float64
	Accel    float64
}

// Profiler builds a time-parameterized velocity profile over a path of a
// fixed length. Calculate must be called after constraints change.
type Profiler struct {
	total       float64
	constraints []Constraint
	motions     []Motion
}

// NewProfiler creates a Profiler for a path of totalDistance.
func NewProfiler(totalDistance float64) *Profiler {
	return &Profiler{total: totalDistance}
}

// AddConstraint appends a constraint region starting at start.
func (p *Profiler) AddConstraint(start, maxVelocity, maxAccel, maxDecel float64) *Profiler {
	p.constraints = append(p.constraints, Constraint{
		Start:       start,
		MaxVelocity: maxVelocity,
		MaxAccel:    maxAccel,
		MaxDecel:    maxDecel,
	})
	return p
}

// Constraints returns the registered constraints.
func (p *Profiler) Constraints() []Constraint {
	return p.constraints
}

// TotalDistance returns the path length.
func (p *Profiler) TotalDistance() float64 {
	return p.total
}

// span is a constraint region on either the forward or the mirrored axis.
type span struct {
	start, end  float64
	maxVelocity float64
	accel       float64
}

// sweep accelerates from rest through spans, emitting a breakpoint where
// acceleration starts and where the velocity cap is reached. A span without
// acceleration holds the entry velocity.
func sweep(spans []span) []Node {
	var nodes []Node
	var v float64
	for _, s := range spans {
		length := s.end - s.start
		if s.accel < 0 {
			s.accel = 0
		}
		if v < s.maxVelocity {
			nodes = append(nodes, Node{Distance: s.start, Velocity: v, Accel: s.accel})
		}
		v = math.Min(v, s.maxVelocity)
		toCap := 0.0
		switch {
		case v >= s.maxVelocity:
		case s.accel == 0:
			toCap = math.Inf(1)
		default:
			toCap = (s.maxVelocity*s.maxVelocity - v*v) / (2 * s.accel)
		}
		if toCap < length {
			nodes = append(nodes, Node{Distance: s.start + toCap, Velocity: s.maxVelocity})
		}
		v = math.Sqrt(v*v + 2*s.accel*math.Min(toCap, length))
	}
	return nodes
}

func (p *Profiler) sorted() []Constraint {
	cs := append([]Constraint(nil), p.constraints...)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Start < cs[j].Start })
	return cs
}

// forward computes the accelerate-only candidate.
func (p *Profiler) forward() []Node {
	cs := p.sorted()
	spans := make([]span, len(cs))
	for i, c := range cs {
		end := p.total
		if i+1 < len(cs) {
			end = cs[i+1].Start
		}
		spans[i] = span{start: c.Start, end: end, maxVelocity: c.MaxVelocity, accel: c.MaxAccel}
	}
	return sweep(spans)
}

// backward computes the brake-in-time candidate on the forward axis.
func (p *Profiler) backward() []Node {
	cs := p.sorted()
	n := len(cs)
	spans := make([]span, 0, n)
	for i := n - 1; i >= 0; i-- {
		var start float64
		if i+1 < n {
			start = p.total - cs[i+1].Start
		}
		spans = append(spans, span{
			start:       start,
			end:         p.total - cs[i].Start,
			maxVelocity: cs[i].MaxVelocity,
			accel:       cs[i].MaxDecel,
		})
	}
	mirrored := sweep(spans)

	// each breakpoint describes [d_i, d_i+1) on the mirrored axis;
	// re-anchor it at the far end of that stretch and flip its slope.
	for i := range mirrored {
		end := p.total
		if i+1 < len(mirrored) {
			end = mirrored[i+1].Distance
		}
		node := &mirrored[i]
		length := end - node.Distance
		node.Distance = p.total - end
		node.Velocity = math.Sqrt(math.Max(0, node.Velocity*node.Velocity+2*node.Accel*length))
		node.Accel = -node.Accel
	}
	for i, j := 0, len(mirrored)-1; i < j; i, j = i+1, j-1 {
		mirrored[i], mirrored[j] = mirrored[j], mirrored[i]
	}
	return mirrored
}

// mergedNode pairs forward and backward breakpoints at one distance.
type mergedNode struct {
	distance float64
	forward  *Node
	backward *Node
}

func merge(forward, backward []Node) []mergedNode {
	merged := make([]mergedNode, 0, len(forward)+len(backward))
	i, j := 0, 0
	for i < len(forward) && j < len(backward) {
		f, b := &forward[i], &backward[j]
		switch {
		case geom.WithinRange(f.Distance, b.Distance, coincidentDistance):
			merged = append(merged, mergedNode{distance: f.Distance, forward: f, backward: b})
			i++
			j++
		case f.Distance < b.Distance:
			merged = append(merged, mergedNode{distance: f.Distance, forward: f})
			i++
		default:
			merged = append(merged, mergedNode{distance: b.Distance, backward: b})
			j++
		}
	}
	for ; i < len(forward); i++ {
		merged = append(merged, mergedNode{distance: forward[i].Distance, forward: &forward[i]})
	}
	for ; j < len(backward); j++ {
		merged = append(merged, mergedNode{distance: backward[j].Distance, backward: &backward[j]})
	}
	return merged
}

func integrate(v, a, ds float64) float64 {
	return math.Sqrt(math.Max(0, v*v+2*a*ds))
}

// combine walks the merged breakpoints keeping the lower candidate.
func (p *Profiler) combine() []Node {
	merged := merge(p.forward(), p.backward())

	var fwd, bwd Node
	var nodes []Node
	lastDistance, crossing := 0.0, -1.0

	insertCrossing := func(upTo float64) {
		if lastDistance < crossing && crossing < upTo {
			nodes = append(nodes, Node{
				Distance: crossing,
				Velocity: integrate(bwd.Velocity, bwd.Accel, crossing-lastDistance),
				Accel:    bwd.Accel,
			})
		}
	}

	for _, m := range merged {
		insertCrossing(m.distance)

		travel := m.distance - lastDistance
		lastDistance = m.distance
		if m.forward != nil {
			fwd = *m.forward
		} else {
			fwd.Velocity = integrate(fwd.Velocity, fwd.Accel, travel)
		}
		if m.backward != nil {
			bwd = *m.backward
		} else {
			bwd.Velocity = integrate(bwd.Velocity, bwd.Accel, travel)
		}

		v, a, u, b := fwd.Velocity, fwd.Accel, bwd.Velocity, bwd.Accel
		switch {
		case len(nodes) == 0:
			nodes = append(nodes, Node{Distance: m.distance, Velocity: v, Accel: a})
		case geom.WithinRange(v, u, equalVelocity) || v > u:
			nodes = append(nodes, Node{Distance: m.distance, Velocity: u, Accel: b})
		default:
			nodes = append(nodes, Node{Distance: m.distance, Velocity: v, Accel: a})
		}

		// v² + 2aΔs = u² + 2bΔs
		if a != b {
			crossing = m.distance + (u*u-v*v)/(2*a-2*b)
		} else {
			crossing = -1
		}
	}
	insertCrossing(p.total)
	return nodes
}

// Calculate builds the time table. It returns an error wrapping
// ErrInfeasible when some stretch can not be crossed; the table is then
// left empty.
func (p *Profiler) Calculate() error {
	p.motions = nil
	if len(p.constraints) == 0 {
		return ErrNoConstraints
	}
	nodes := p.combine()
	if len(nodes) == 0 {
		return errors.Wrap(ErrInfeasible, "no breakpoints")
	}
	motions := make([]Motion, 0, len(nodes)+1)
	var t float64
	for i, n := range nodes {
		end, next := p.total, 0.0
		if i+1 < len(nodes) {
			end, next = nodes[i+1].Distance, nodes[i+1].Velocity
		}
		motions = append(motions, Motion{Time: t, Distance: n.Distance, Velocity: n.Velocity, Accel: n.Accel})
		if math.IsNaN(n.Velocity) || math.IsNaN(n.Accel) {
			return errors.Wrapf(ErrInfeasible, "undefined motion at distance %.4f", n.Distance)
		}
		if n.Velocity+next == 0 && n.Accel == 0 {
			glog.Warningf("trajectory: stalled at distance %.4f (breakpoint %d)", n.Distance, i)
			return errors.Wrapf(ErrInfeasible, "stalled at distance %.4f", n.Distance)
		}
		if n.Accel != 0 {
			t += (next - n.Velocity) / n.Accel
		} else {
			t += 2 * (end - n.Distance) / (n.Velocity + next)
		}
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return errors.Wrap(ErrInfeasible, "unbounded duration")
	}
	motions = append(motions, Motion{Time: t, Distance: p.total})
	p.motions = motions
	if glog.V(2) {
		glog.Infof("trajectory: %d breakpoints, %.3f over %.3fs", len(motions), p.total, t)
	}
	return nil
}

// Profile returns the time table.
func (p *Profiler) Profile() []Motion {
	return p.motions
}

// TotalTime returns the duration of the profile.
func (p *Profiler) TotalTime() float64 {
	if len(p.motions) == 0 {
		return 0
	}
	return p.motions[len(p.motions)-1].Time
}

// MotionAt returns the kinematic state at time t, clamped to the profile.
func (p *Profiler) MotionAt(t float64) Motion {
	if len(p.motions) == 0 {
		return Motion{Time: t}
	}
	last := p.motions[len(p.motions)-1]
	if t > last.Time {
		last.Time = t
		return last
	}
	if t < 0 {
		t = 0
	}
	i := sort.Search(len(p.motions), func(i int) bool { return p.motions[i].Time > t }) - 1
	if i < 0 {
		i = 0
	}
	m := p.motions[i]
	dt := t - m.Time
	return Motion{
		Time:     t,
		Distance: m.Distance + m.Velocity*dt + 0.5*m.Accel*dt*dt,
		Velocity: m.Velocity + m.Accel*dt,
		Accel:    m.Accel,
	}
}
