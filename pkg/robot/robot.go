// Package robot composes the motion stack of one robot: the drivetrain,
// odometry, maneuver runner and the links to stations, all driven by one
// control loop.
package robot

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/robotalks/motion.go/pkg/comm"
	"github.com/robotalks/motion.go/pkg/config"
	"github.com/robotalks/motion.go/pkg/drive"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/geom"
	"github.com/robotalks/motion.go/pkg/maneuver"
	"github.com/robotalks/motion.go/pkg/msgs"
	"github.com/robotalks/motion.go/pkg/odometry"
	"github.com/robotalks/motion.go/pkg/sim"
)

// Robot is the motion stack of one robot. Poses are in tiles.
type Robot struct {
	ID      string
	Profile *config.Profile
	Clock   clock.Clock

	// Plant is the simulated drivetrain the odometry reads.
	Plant    *sim.Drivetrain
	Motors   drive.Motors
	Odometry *odometry.Odometry
	Drive    *drive.Differential
	Runner   *maneuver.Runner
	// Events are where pose reports and maneuver events go.
	Events comm.RegistrarMux
	// ReportEvery is the number of loop ticks between pose reports.
	ReportEvery int

	loop    *fx.Loop
	lock    sync.Mutex
	tracked *tracked
	ticks   int
	closers []func() error
}

type tracked struct {
	handle *maneuver.Handle
	kind   string
}

// New creates a robot on the wall clock. Motor commands go to the
// simulated plant and to every extra Motors.
func New(id string, p *config.Profile, extra ...drive.Motors) *Robot {
	return NewWithClock(id, p, clock.New(), extra...)
}

// NewWithClock creates a robot on clk.
func NewWithClock(id string, p *config.Profile, clk clock.Clock, extra ...drive.Motors) *Robot {
	r := &Robot{
		ID:          id,
		Profile:     p,
		Clock:       clk,
		Plant:       p.Sim.NewDrivetrain(p.Geometry),
		Odometry:    odometry.New(),
		ReportEvery: DefaultReportEvery,
	}
	r.Motors = r.Plant
	if len(extra) > 0 {
		r.Motors = append(drive.Tee{r.Plant}, extra...)
	}
	r.Plant.AttachOdometry(r.Odometry, p.Odometry.CWDrift, p.Odometry.CCWDrift)
	r.Odometry.SetPositionFactor(1 / p.Geometry.TileLength)
	r.Odometry.Start()
	r.Drive = drive.NewDifferential(r.Motors, p.Geometry)
	maneuvers := p.Maneuver
	r.Runner = maneuver.NewRunner(&maneuver.Env{
		Drive:     r.Drive,
		Pose:      r.Odometry,
		Corrector: r.Odometry,
		Clock:     clk,
		Config:    &maneuvers,
	})
	start := p.Odometry
	r.place(geom.PoseAt(start.StartX, start.StartY, geom.SwapFieldPolar(start.StartHeading)))
	return r
}

// Pose returns the tracked pose.
func (r *Robot) Pose() geom.Pose {
	return r.Odometry.Pose()
}

// SetPose relocates the robot. It fails with maneuver.ErrBusy while a
// maneuver is running.
func (r *Robot) SetPose(p geom.Pose) error {
	if r.Runner.Active() != nil {
		return maneuver.ErrBusy
	}
	r.place(p)
	return nil
}

func (r *Robot) place(p geom.Pose) {
	tile := r.Profile.Geometry.TileLength
	r.Plant.SetPose(geom.PoseAt(p.X*tile, p.Y*tile, p.Heading))
	r.Odometry.SetPosition(p.X, p.Y)
	r.Odometry.SetLookHeading(p.FieldHeading())
	glog.V(2).Infof("robot %s: placed at %v", r.ID, p)
}

// Start runs a maneuver and reports its progress as events.
func (r *Robot) Start(ctx context.Context, kind string, m maneuver.Maneuver) (*maneuver.Handle, error) {
	h, err := r.Runner.Start(ctx, m)
	if err != nil {
		return nil, err
	}
	r.lock.Lock()
	r.tracked = &tracked{handle: h, kind: kind}
	r.lock.Unlock()
	glog.Infof("robot %s: %s %s started", r.ID, kind, h.ID)
	return h, nil
}

// Do executes a command through the loop as if it arrived from a station
// and returns the reply. A CommandErr reply is returned as the error.
func (r *Robot) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	if r.loop == nil {
		return nil, errNotRunning
	}
	cmd := &localCommand{msg: msg, reply: make(chan fx.Message, 1)}
	r.loop.PostMessage(&comm.CommandMsg{Command: cmd})
	r.loop.TriggerNext()
	select {
	case reply := <-cmd.reply:
		if cmdErr, ok := reply.(*msgs.CommandErr); ok {
			return nil, cmdErr
		}
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var errNotRunning = errors.New("robot not in a loop")

type localCommand struct {
	msg   fx.Message
	reply chan fx.Message
}

func (c *localCommand) Msg() fx.Message { return c.msg }

func (c *localCommand) Done(reply fx.Message) error {
	c.reply <- reply
	return nil
}

// NewLoop creates the control loop ticking at the odometry interval.
func (r *Robot) NewLoop() *fx.Loop {
	l := &fx.Loop{Interval: r.Profile.Odometry.Interval, Clock: r.Clock}
	l.Add(r)
	return l
}

// AddToLoop implements LoopAdder.
func (r *Robot) AddToLoop(l *fx.Loop) {
	r.loop = l
	l.Add(r.Odometry, r.Plant, &r.Events, &comm.UnsupportedCommands{})
	l.AddController(fx.PrLvControl, fx.ControlFunc(r.handleCommands))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(r.report))
	l.AddRunnable(fx.NamedRun("robot", r))
}

// Run implements Runnable. It stops the drive when the loop ends.
func (r *Robot) Run(ctx context.Context) error {
	<-ctx.Done()
	r.Runner.Cancel()
	if h := r.Runner.Active(); h != nil {
		h.Wait()
	}
	return r.Drive.Stop(drive.Brake)
}

// Close releases the links opened by Config.NewRobot.
func (r *Robot) Close() (err error) {
	for _, fn := range r.closers {
		err = multierr.Append(err, fn())
	}
	r.closers = nil
	return
}
