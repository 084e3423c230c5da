package maneuver

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/motion.go/pkg/control"
	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/spline"
	"github.com/robotalks/motion.go/pkg/trajectory"
)

// PlanOptions configures PlanPath. Velocities are in tiles per second.
type PlanOptions struct {
	SamplesPerSegment int
	MinVelocity       float64
	MaxVelocity       float64
	MaxAccel          float64
	MaxDecel          float64
	// TrackWidth in tiles.
	TrackWidth float64
}

// Path is a spline with its arc length table and velocity profile. It
// is read-only once planned and may be followed any number of times.
type Path struct {
	Spline  *spline.Spline
	Sampler *spline.Sampler
	Profile *trajectory.Profiler
}

// PlanPath samples s and profiles it, slowing down in curves.
func PlanPath(s *spline.Spline, opts PlanOptions) (*Path, error) {
	perSegment := opts.SamplesPerSegment
	if perSegment <= 0 {
		perSegment = spline.DefaultResolutionPerSegment
	}
	sampler := spline.NewSampler(s, s.Len()*perSegment)
	profile := trajectory.AutoConstraints(sampler, trajectory.AutoOptions{
		MinVelocity: opts.MinVelocity,
		MaxVelocity: opts.MaxVelocity,
		MaxAccel:    opts.MaxAccel,
		MaxDecel:    opts.MaxDecel,
		TrackWidth:  opts.TrackWidth,
	})
	if err := profile.Calculate(); err != nil {
		return nil, errors.Wrap(err, "plan path")
	}
	glog.V(2).Infof("path: %d segments, %.3f tiles in %.3fs", s.Len(), sampler.TotalDistance(), profile.TotalTime())
	return &Path{Spline: s, Sampler: sampler, Profile: profile}, nil
}

// Duration is the time the profile takes.
func (p *Path) Duration() time.Duration {
	return seconds(p.Profile.TotalTime())
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FollowPath tracks a planned path in time with a Ramsete controller.
type FollowPath struct {
	Path *Path
	// Reverse drives the path backwards.
	Reverse bool

	ramsete   *control.Ramsete
	toPct     float64
	linger    time.Duration
	total     float64
	remaining float64
}

// Begin implements Maneuver.
func (f *FollowPath) Begin(env *Env) {
	conf := env.config().Follow
	f.ramsete = control.NewRamsete().SetReversed(f.Reverse)
	f.toPct = conf.PathToPct
	if f.toPct <= 0 {
		f.toPct = env.Drive.Geometry.TilesPerSecondToPct()
	}
	f.linger = conf.Linger
	_, f.total = f.Path.Sampler.DistanceRange()
	f.remaining = f.total
}

// Tick implements Maneuver.
func (f *FollowPath) Tick(env *Env, elapsed time.Duration) (Reason, error) {
	if elapsed > f.Path.Duration()+f.linger {
		f.remaining = 0
		return Completed, nil
	}
	motion := f.Path.Profile.MotionAt(elapsed.Seconds())
	param := f.Path.Sampler.DistanceToParam(motion.Distance)
	w := motion.Velocity * f.Path.Spline.Curvature(param)
	f.remaining = f.total - motion.Distance

	actual := env.Pose.Pose()
	target := f.Path.Spline.PoseAt(param, f.Reverse)
	linear, angular := f.ramsete.Track(actual, target, motion.Velocity, w)
	if glog.V(4) {
		glog.Infof("follow: t=%v d=%.3f target %v actual %v lin=%.3f ang=%.3f", elapsed, motion.Distance, target, actual, linear, angular)
	}
	return Running, env.Drive.DriveLinegular(linear*f.toPct, angular)
}

// End implements Maneuver.
func (f *FollowPath) End(env *Env, reason Reason) error {
	return env.Drive.Stop(drive.Coast)
}

// Timeout implements Maneuver. The profile bounds the run, with a second
// to spare.
func (f *FollowPath) Timeout() time.Duration {
	return f.Path.Duration() + time.Second
}

// Remaining implements Maneuver, in tiles along the path.
func (f *FollowPath) Remaining() float64 {
	return f.remaining
}
