package maneuver

import (
	"time"

	"github.com/golang/geo/r2"
)

// Sequence runs steps back to back. Each step keeps its own timeout; a
// step that times out or runs out of patience hands over to the next one,
// a failing step fails the sequence.
type Sequence struct {
	Steps []Maneuver

	current int
	exec    *execution
	last    Result
}

// Waypoints visits points in order, turning to face each one before
// driving to it.
func Waypoints(points []r2.Point, reverse bool, maxPct float64) *Sequence {
	s := &Sequence{}
	for _, p := range points {
		s.Steps = append(s.Steps,
			&TurnToFace{X: p.X, Y: p.Y, Reverse: reverse},
			&DriveTurnToFace{X: p.X, Y: p.Y, Reverse: reverse, MaxPct: maxPct})
	}
	return s
}

// Begin implements Maneuver.
func (s *Sequence) Begin(env *Env) {
	s.current, s.exec, s.last = 0, nil, Result{}
}

// Tick implements Maneuver.
func (s *Sequence) Tick(env *Env, elapsed time.Duration) (Reason, error) {
	// steps are timed on the sequence's own time line.
	now := time.Time{}.Add(elapsed)
	for s.current < len(s.Steps) {
		if s.exec == nil {
			s.exec = newExecution(env, s.Steps[s.current])
			s.exec.begin(now)
		}
		if !s.exec.tick(now) {
			return Running, nil
		}
		s.last, s.exec = s.exec.result, nil
		s.current++
		if s.last.Reason == Failed {
			return Running, s.last.Err
		}
	}
	return Completed, nil
}

// End implements Maneuver.
func (s *Sequence) End(env *Env, reason Reason) error {
	if s.exec == nil {
		return nil
	}
	s.exec.finish(reason, nil)
	s.last, s.exec = s.exec.result, nil
	return s.last.Err
}

// Timeout implements Maneuver. The steps bound themselves.
func (s *Sequence) Timeout() time.Duration {
	return -1
}

// Remaining implements Maneuver, that of the running step.
func (s *Sequence) Remaining() float64 {
	if s.exec == nil {
		return 0
	}
	return s.exec.m.Remaining()
}

// Step returns the index of the running step, len(Steps) when done.
func (s *Sequence) Step() int {
	return s.current
}

// Last returns the result of the latest finished step.
func (s *Sequence) Last() Result {
	return s.last
}
