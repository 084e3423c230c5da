package robot

import (
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
	pb "github.com/robotalks/motion.go/pkg/proto/motion/v1"
)

// report sends the pose every ReportEvery ticks, and the progress of the
// tracked maneuver every tick until its Done event is out.
func (r *Robot) report(cc fx.ControlContext) error {
	r.ticks++
	if r.ReportEvery > 0 && r.ticks%r.ReportEvery == 0 {
		r.send(cc, msgs.NewPoseReport(r.ID, cc.Time(), r.Pose()))
	}

	r.lock.Lock()
	t := r.tracked
	r.lock.Unlock()
	if t == nil {
		return nil
	}
	id := t.handle.ID.String()
	select {
	case <-t.handle.Done():
		res := t.handle.Wait()
		done := &msgs.Done{ManeuverDone: pb.ManeuverDone{
			ManeuverId: id,
			Kind:       t.kind,
			Reason:     res.Reason.String(),
			ElapsedMs:  millis(res.Elapsed),
			Pose:       msgs.PoseMsg(res.Pose),
		}}
		if res.Err != nil {
			done.Error = res.Err.Error()
		}
		r.lock.Lock()
		if r.tracked == t {
			r.tracked = nil
		}
		r.lock.Unlock()
		glog.Infof("robot %s: %s %s %s after %v", r.ID, t.kind, id, res.Reason, res.Elapsed)
		r.send(cc, done)
	default:
		p := t.handle.Progress()
		r.send(cc, &msgs.Progress{ManeuverProgress: pb.ManeuverProgress{
			ManeuverId: id,
			Kind:       t.kind,
			Remaining:  p.Remaining,
			ElapsedMs:  millis(p.Elapsed),
		}})
	}
	return nil
}

func (r *Robot) send(cc fx.ControlContext, msg fx.Message) {
	if err := r.Events.SendEvent(cc.Context(), msg); err != nil {
		glog.V(2).Infof("robot %s: send %T: %v", r.ID, msg, err)
	}
}

func millis(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}
