package robot

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/motion.go/pkg/comm"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/maneuver"
	"github.com/robotalks/motion.go/pkg/msgs"
	"github.com/robotalks/motion.go/pkg/spline"
)

// Maneuver kinds reported in events.
const (
	KindTurn   = "turn"
	KindFace   = "face"
	KindDrive  = "drive"
	KindGoto   = "goto"
	KindFollow = "follow"
)

// DefaultBasis is used by Follow commands not naming a basis.
const DefaultBasis = spline.CatmullRom

func (r *Robot) handleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*comm.CommandMsg)
		if !ok {
			return
		}
		reply, ok := r.execute(cc, cmdMsg.Command.Msg())
		if !ok {
			return
		}
		mctx.MessageTaken()
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Errorf("robot %s: reply %T: %v", r.ID, reply, err)
		}
	}))
	return nil
}

// execute runs a command and returns the reply, ok is false for commands
// the robot doesn't know.
func (r *Robot) execute(cc fx.ControlContext, msg fx.Message) (reply fx.Message, ok bool) {
	var (
		kind string
		m    maneuver.Maneuver
		err  error
	)
	switch cmd := msg.(type) {
	case *msgs.Turn:
		kind, m = KindTurn, &maneuver.TurnToAngle{Target: cmd.Target, MaxPct: cmd.MaxPct}
	case *msgs.Face:
		target := msgs.PointFrom(cmd.Target)
		kind, m = KindFace, &maneuver.TurnToFace{X: target.X, Y: target.Y, Reverse: cmd.Reverse, MaxPct: cmd.MaxPct}
	case *msgs.Drive:
		kind, m = KindDrive, &maneuver.DriveDistance{
			Distance:    cmd.Distance,
			Heading:     cmd.Heading,
			KeepHeading: cmd.KeepHeading,
			MaxPct:      cmd.MaxPct,
			MaxTurnPct:  cmd.MaxTurnPct,
		}
	case *msgs.Goto:
		kind, m = KindGoto, r.gotoManeuver(cmd)
	case *msgs.Follow:
		kind = KindFollow
		m, err = r.followManeuver(cmd)
	case *msgs.Cancel:
		id := ""
		if h := r.Runner.Active(); h != nil {
			id = h.ID.String()
			h.Cancel()
		}
		return msgs.NewCommandOK(id), true
	case *msgs.SetPose:
		if err := r.SetPose(msgs.PoseFrom(cmd.Pose)); err != nil {
			return msgs.NewCommandErr(err), true
		}
		return msgs.NewCommandOK(""), true
	case *msgs.PoseQuery:
		return &msgs.CurrentPose{Pose: *msgs.PoseMsg(r.Pose())}, true
	default:
		return nil, false
	}
	if err != nil {
		return msgs.NewCommandErr(err), true
	}
	h, err := r.Start(cc.Context(), kind, m)
	if err != nil {
		return msgs.NewCommandErr(err), true
	}
	return msgs.NewCommandOK(h.ID.String()), true
}

func (r *Robot) gotoManeuver(cmd *msgs.Goto) maneuver.Maneuver {
	target := msgs.PointFrom(cmd.Target)
	drive := &maneuver.DriveTurnToFace{X: target.X, Y: target.Y, Reverse: cmd.Reverse, MaxPct: cmd.MaxPct}
	if !cmd.FaceFirst {
		return drive
	}
	return &maneuver.Sequence{Steps: []maneuver.Maneuver{
		&maneuver.TurnToFace{X: target.X, Y: target.Y, Reverse: cmd.Reverse},
		drive,
	}}
}

func (r *Robot) followManeuver(cmd *msgs.Follow) (maneuver.Maneuver, error) {
	basis := DefaultBasis
	if cmd.Basis != "" {
		var err error
		if basis, err = spline.ParseBasis(cmd.Basis); err != nil {
			return nil, err
		}
	}
	s, err := spline.FromAutoTangent(basis, cmd.ControlPoints()...)
	if err != nil {
		return nil, errors.Wrap(err, "build path")
	}
	path, err := maneuver.PlanPath(s, r.Profile.Maneuver.PlanOptions(r.Profile.Geometry))
	if err != nil {
		return nil, err
	}
	return &maneuver.FollowPath{Path: path, Reverse: cmd.Reverse}, nil
}
