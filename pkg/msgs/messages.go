package msgs

import (
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/geom"
	pb "github.com/robotalks/motion.go/pkg/proto/motion/v1"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
	pb.CommandOK
}

// NewCommandOK creates a CommandOK, maneuverID is empty for commands
// not starting a maneuver.
func NewCommandOK(maneuverID string) *CommandOK {
	return &CommandOK{CommandOK: pb.CommandOK{ManeuverId: maneuverID}}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return &m.CommandOK }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	pb.CommandErr
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{
		CommandErr: pb.CommandErr{
			Message: message,
		},
	}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return &m.CommandErr }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// Turn command.
type Turn struct {
	pb.TurnCommand
}

// NewMessage implements Message.
func (m *Turn) NewMessage() fx.Message { return &Turn{} }

// TypeID implements SerializableMessage.
func (m *Turn) TypeID() uint32 { return TurnTypeID }

// Serializable implements SerializableMessage.
func (m *Turn) Serializable() proto.Message { return &m.TurnCommand }

// Face command.
type Face struct {
	pb.FaceCommand
}

// NewMessage implements Message.
func (m *Face) NewMessage() fx.Message { return &Face{} }

// TypeID implements SerializableMessage.
func (m *Face) TypeID() uint32 { return FaceTypeID }

// Serializable implements SerializableMessage.
func (m *Face) Serializable() proto.Message { return &m.FaceCommand }

// Drive command.
type Drive struct {
	pb.DriveCommand
}

// NewMessage implements Message.
func (m *Drive) NewMessage() fx.Message { return &Drive{} }

// TypeID implements SerializableMessage.
func (m *Drive) TypeID() uint32 { return DriveTypeID }

// Serializable implements SerializableMessage.
func (m *Drive) Serializable() proto.Message { return &m.DriveCommand }

// Goto command.
type Goto struct {
	pb.GotoCommand
}

// NewMessage implements Message.
func (m *Goto) NewMessage() fx.Message { return &Goto{} }

// TypeID implements SerializableMessage.
func (m *Goto) TypeID() uint32 { return GotoTypeID }

// Serializable implements SerializableMessage.
func (m *Goto) Serializable() proto.Message { return &m.GotoCommand }

// Follow command.
type Follow struct {
	pb.FollowCommand
}

// NewMessage implements Message.
func (m *Follow) NewMessage() fx.Message { return &Follow{} }

// TypeID implements SerializableMessage.
func (m *Follow) TypeID() uint32 { return FollowTypeID }

// Serializable implements SerializableMessage.
func (m *Follow) Serializable() proto.Message { return &m.FollowCommand }

// ControlPoints returns the points to build the spline from.
func (m *Follow) ControlPoints() []r2.Point {
	points := make([]r2.Point, 0, len(m.Points))
	for _, p := range m.Points {
		points = append(points, PointFrom(p))
	}
	return points
}

// Cancel command.
type Cancel struct {
	pb.CancelCommand
}

// NewMessage implements Message.
func (m *Cancel) NewMessage() fx.Message { return &Cancel{} }

// TypeID implements SerializableMessage.
func (m *Cancel) TypeID() uint32 { return CancelTypeID }

// Serializable implements SerializableMessage.
func (m *Cancel) Serializable() proto.Message { return &m.CancelCommand }

// SetPose command.
type SetPose struct {
	pb.SetPoseCommand
}

// NewMessage implements Message.
func (m *SetPose) NewMessage() fx.Message { return &SetPose{} }

// TypeID implements SerializableMessage.
func (m *SetPose) TypeID() uint32 { return SetPoseTypeID }

// Serializable implements SerializableMessage.
func (m *SetPose) Serializable() proto.Message { return &m.SetPoseCommand }

// PoseQuery command.
type PoseQuery struct {
	pb.PoseQuery
}

// NewMessage implements Message.
func (m *PoseQuery) NewMessage() fx.Message { return &PoseQuery{} }

// TypeID implements SerializableMessage.
func (m *PoseQuery) TypeID() uint32 { return PoseQueryTypeID }

// Serializable implements SerializableMessage.
func (m *PoseQuery) Serializable() proto.Message { return &m.PoseQuery }

// CurrentPose replies PoseQuery.
type CurrentPose struct {
	pb.Pose
}

// NewMessage implements Message.
func (m *CurrentPose) NewMessage() fx.Message { return &CurrentPose{} }

// TypeID implements SerializableMessage.
func (m *CurrentPose) TypeID() uint32 { return CurrentPoseTypeID }

// Serializable implements SerializableMessage.
func (m *CurrentPose) Serializable() proto.Message { return &m.Pose }

// PoseReport event.
type PoseReport struct {
	pb.PoseReport
}

// NewPoseReport creates a PoseReport.
func NewPoseReport(robotID string, at time.Time, pose geom.Pose) *PoseReport {
	return &PoseReport{PoseReport: pb.PoseReport{
		RobotId:   robotID,
		Timestamp: at.UnixNano() / int64(time.Millisecond),
		Pose:      PoseMsg(pose),
	}}
}

// NewMessage implements Message.
func (m *PoseReport) NewMessage() fx.Message { return &PoseReport{} }

// TypeID implements SerializableMessage.
func (m *PoseReport) TypeID() uint32 { return PoseReportTypeID }

// Serializable implements SerializableMessage.
func (m *PoseReport) Serializable() proto.Message { return &m.PoseReport }

// Progress event.
type Progress struct {
	pb.ManeuverProgress
}

// NewMessage implements Message.
func (m *Progress) NewMessage() fx.Message { return &Progress{} }

// TypeID implements SerializableMessage.
func (m *Progress) TypeID() uint32 { return ProgressTypeID }

// Serializable implements SerializableMessage.
func (m *Progress) Serializable() proto.Message { return &m.ManeuverProgress }

// Done event.
type Done struct {
	pb.ManeuverDone
}

// NewMessage implements Message.
func (m *Done) NewMessage() fx.Message { return &Done{} }

// TypeID implements SerializableMessage.
func (m *Done) TypeID() uint32 { return DoneTypeID }

// Serializable implements SerializableMessage.
func (m *Done) Serializable() proto.Message { return &m.ManeuverDone }

// PoseMsg converts a pose for the wire.
func PoseMsg(p geom.Pose) *pb.Pose {
	return &pb.Pose{X: p.X, Y: p.Y, Heading: p.Heading}
}

// PoseFrom converts a wire pose, nil is the origin facing +Y.
func PoseFrom(p *pb.Pose) geom.Pose {
	if p == nil {
		return geom.PoseAt(0, 0, 90)
	}
	return geom.PoseAt(p.X, p.Y, p.Heading)
}

// PointMsg converts a point for the wire.
func PointMsg(p r2.Point) *pb.Point {
	return &pb.Point{X: p.X, Y: p.Y}
}

// PointFrom converts a wire point, nil is the origin.
func PointFrom(p *pb.Point) r2.Point {
	if p == nil {
		return r2.Point{}
	}
	return r2.Point{X: p.X, Y: p.Y}
}

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupMotion  uint32 = 0x00010000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID   uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID  uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	TurnTypeID        uint32 = GroupMotion | 0x0001
	FaceTypeID        uint32 = GroupMotion | 0x0002
	DriveTypeID       uint32 = GroupMotion | 0x0003
	GotoTypeID        uint32 = GroupMotion | 0x0004
	FollowTypeID      uint32 = GroupMotion | 0x0005
	CancelTypeID      uint32 = GroupMotion | 0x0006
	SetPoseTypeID     uint32 = GroupMotion | 0x0007
	PoseQueryTypeID   uint32 = GroupMotion | 0x0008
	CurrentPoseTypeID uint32 = PoseQueryTypeID | TypeIDMaskReply
	PoseReportTypeID  uint32 = TypeIDKindEvent | GroupMotion | 0x0001
	ProgressTypeID    uint32 = TypeIDKindEvent | GroupMotion | 0x0002
	DoneTypeID        uint32 = TypeIDKindEvent | GroupMotion | 0x0003
)
