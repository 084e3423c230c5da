// Package maneuver runs closed-loop motions on a differential drive: PID
// turns and drives, point seeking and spline path following. Every
// maneuver runs as a task on a fixed tick and always ends, by settling,
// by running out of patience, by timing out or by being canceled.
package maneuver

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/geom"
)

// PoseSource provides the tracked pose in tiles, heading in polar degrees.
type PoseSource interface {
	Pose() geom.Pose
}

// HeadingCorrector applies accumulated heading sensor drift correction.
type HeadingCorrector interface {
	CorrectHeading()
	ResetHeadingDrift()
}

// Env is what a maneuver drives and observes.
type Env struct {
	Drive *drive.Differential
	Pose  PoseSource
	// Corrector is optional.
	Corrector HeadingCorrector
	// Clock defaults to the wall clock.
	Clock  clock.Clock
	Config *Config
}

// resolve fills in the defaults. It runs before any task shares env.
func (e *Env) resolve() {
	if e.Clock == nil {
		e.Clock = clock.New()
	}
	if e.Config == nil {
		e.Config = NewConfig()
	}
}

func (e *Env) clock() clock.Clock {
	if e.Clock == nil {
		return clock.New()
	}
	return e.Clock
}

func (e *Env) config() *Config {
	if e.Config == nil {
		return NewConfig()
	}
	return e.Config
}

// heading error from the current field heading to target, in degrees.
func (e *Env) fieldHeadingError(target float64) float64 {
	err := target - e.Pose.Pose().FieldHeading()
	if e.config().RelativeRotation {
		err = geom.NormalizeDegrees(err)
	}
	return err
}

// Reason tells why a maneuver stopped.
type Reason int

// Reasons
const (
	// Running is returned by Tick to keep going.
	Running Reason = iota
	Settled
	Exhausted
	Timeout
	Canceled
	Completed
	Failed
)

func (r Reason) String() string {
	switch r {
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Exhausted:
		return "exhausted"
	case Timeout:
		return "timeout"
	case Canceled:
		return "canceled"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Maneuver is a closed-loop motion. Begin is called once before the first
// Tick and End once after the last. A Maneuver value is used by one run at
// a time.
type Maneuver interface {
	Begin(env *Env)
	// Tick reads the pose, commands the drive and returns Running until
	// the maneuver is done.
	Tick(env *Env, elapsed time.Duration) (Reason, error)
	End(env *Env, reason Reason) error
	// Timeout bounds the run, 0 for the configured default and negative
	// for no bound.
	Timeout() time.Duration
	// Remaining is the error left: tiles for moves, degrees for turns.
	Remaining() float64
}

// Progress is a snapshot of a running maneuver.
type Progress struct {
	Remaining float64
	Elapsed   time.Duration
	Done      bool
}

// Result describes a finished maneuver.
type Result struct {
	Reason  Reason
	Elapsed time.Duration
	Pose    geom.Pose
	Err     error
}

// Succeeded reports whether the maneuver reached its goal.
func (r Result) Succeeded() bool {
	return r.Reason == Settled || r.Reason == Completed
}
