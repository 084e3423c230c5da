// Package v1 holds the wire messages of motion.proto.
//
// The structs are kept by hand in the layout protoc-gen-go emits, so the
// protobuf runtime encodes them through their struct tags. Field numbers
// must stay in sync with motion.proto.
package v1

import (
	"github.com/golang/protobuf/proto"
)

type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

type Point struct {
	X float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
}

func (m *Point) Reset()         { *m = Point{} }
func (m *Point) String() string { return proto.CompactTextString(m) }
func (*Point) ProtoMessage()    {}

type Pose struct {
	X       float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y       float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
	Heading float64 `protobuf:"fixed64,3,opt,name=heading,proto3" json:"heading,omitempty"`
}

func (m *Pose) Reset()         { *m = Pose{} }
func (m *Pose) String() string { return proto.CompactTextString(m) }
func (*Pose) ProtoMessage()    {}

type CommandOK struct {
	ManeuverId string `protobuf:"bytes,1,opt,name=maneuver_id,json=maneuverId,proto3" json:"maneuver_id,omitempty"`
}

func (m *CommandOK) Reset()         { *m = CommandOK{} }
func (m *CommandOK) String() string { return proto.CompactTextString(m) }
func (*CommandOK) ProtoMessage()    {}

type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *CommandErr) Reset()         { *m = CommandErr{} }
func (m *CommandErr) String() string { return proto.CompactTextString(m) }
func (*CommandErr) ProtoMessage()    {}

type TurnCommand struct {
	Target float64 `protobuf:"fixed64,1,opt,name=target,proto3" json:"target,omitempty"`
	MaxPct float64 `protobuf:"fixed64,2,opt,name=max_pct,json=maxPct,proto3" json:"max_pct,omitempty"`
}

func (m *TurnCommand) Reset()         { *m = TurnCommand{} }
func (m *TurnCommand) String() string { return proto.CompactTextString(m) }
func (*TurnCommand) ProtoMessage()    {}

type FaceCommand struct {
	Target  *Point  `protobuf:"bytes,1,opt,name=target,proto3" json:"target,omitempty"`
	Reverse bool    `protobuf:"varint,2,opt,name=reverse,proto3" json:"reverse,omitempty"`
	MaxPct  float64 `protobuf:"fixed64,3,opt,name=max_pct,json=maxPct,proto3" json:"max_pct,omitempty"`
}

func (m *FaceCommand) Reset()         { *m = FaceCommand{} }
func (m *FaceCommand) String() string { return proto.CompactTextString(m) }
func (*FaceCommand) ProtoMessage()    {}

type DriveCommand struct {
	Distance    float64 `protobuf:"fixed64,1,opt,name=distance,proto3" json:"distance,omitempty"`
	Heading     float64 `protobuf:"fixed64,2,opt,name=heading,proto3" json:"heading,omitempty"`
	KeepHeading bool    `protobuf:"varint,3,opt,name=keep_heading,json=keepHeading,proto3" json:"keep_heading,omitempty"`
	MaxPct      float64 `protobuf:"fixed64,4,opt,name=max_pct,json=maxPct,proto3" json:"max_pct,omitempty"`
	MaxTurnPct  float64 `protobuf:"fixed64,5,opt,name=max_turn_pct,json=maxTurnPct,proto3" json:"max_turn_pct,omitempty"`
}

func (m *DriveCommand) Reset()         { *m = DriveCommand{} }
func (m *DriveCommand) String() string { return proto.CompactTextString(m) }
func (*DriveCommand) ProtoMessage()    {}

type GotoCommand struct {
	Target    *Point  `protobuf:"bytes,1,opt,name=target,proto3" json:"target,omitempty"`
	Reverse   bool    `protobuf:"varint,2,opt,name=reverse,proto3" json:"reverse,omitempty"`
	MaxPct    float64 `protobuf:"fixed64,3,opt,name=max_pct,json=maxPct,proto3" json:"max_pct,omitempty"`
	FaceFirst bool    `protobuf:"varint,4,opt,name=face_first,json=faceFirst,proto3" json:"face_first,omitempty"`
}

func (m *GotoCommand) Reset()         { *m = GotoCommand{} }
func (m *GotoCommand) String() string { return proto.CompactTextString(m) }
func (*GotoCommand) ProtoMessage()    {}

type FollowCommand struct {
	Points  []*Point `protobuf:"bytes,1,rep,name=points,proto3" json:"points,omitempty"`
	Reverse bool     `protobuf:"varint,2,opt,name=reverse,proto3" json:"reverse,omitempty"`
	Basis   string   `protobuf:"bytes,3,opt,name=basis,proto3" json:"basis,omitempty"`
}

func (m *FollowCommand) Reset()         { *m = FollowCommand{} }
func (m *FollowCommand) String() string { return proto.CompactTextString(m) }
func (*FollowCommand) ProtoMessage()    {}

type CancelCommand struct {
}

func (m *CancelCommand) Reset()         { *m = CancelCommand{} }
func (m *CancelCommand) String() string { return proto.CompactTextString(m) }
func (*CancelCommand) ProtoMessage()    {}

type SetPoseCommand struct {
	Pose *Pose `protobuf:"bytes,1,opt,name=pose,proto3" json:"pose,omitempty"`
}

func (m *SetPoseCommand) Reset()         { *m = SetPoseCommand{} }
func (m *SetPoseCommand) String() string { return proto.CompactTextString(m) }
func (*SetPoseCommand) ProtoMessage()    {}

type PoseQuery struct {
}

func (m *PoseQuery) Reset()         { *m = PoseQuery{} }
func (m *PoseQuery) String() string { return proto.CompactTextString(m) }
func (*PoseQuery) ProtoMessage()    {}

type PoseReport struct {
	RobotId   string `protobuf:"bytes,1,opt,name=robot_id,json=robotId,proto3" json:"robot_id,omitempty"`
	Timestamp int64  `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Pose      *Pose  `protobuf:"bytes,3,opt,name=pose,proto3" json:"pose,omitempty"`
}

func (m *PoseReport) Reset()         { *m = PoseReport{} }
func (m *PoseReport) String() string { return proto.CompactTextString(m) }
func (*PoseReport) ProtoMessage()    {}

type ManeuverProgress struct {
	ManeuverId string  `protobuf:"bytes,1,opt,name=maneuver_id,json=maneuverId,proto3" json:"maneuver_id,omitempty"`
	Kind       string  `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Remaining  float64 `protobuf:"fixed64,3,opt,name=remaining,proto3" json:"remaining,omitempty"`
	ElapsedMs  int64   `protobuf:"varint,4,opt,name=elapsed_ms,json=elapsedMs,proto3" json:"elapsed_ms,omitempty"`
}

func (m *ManeuverProgress) Reset()         { *m = ManeuverProgress{} }
func (m *ManeuverProgress) String() string { return proto.CompactTextString(m) }
func (*ManeuverProgress) ProtoMessage()    {}

type ManeuverDone struct {
	ManeuverId string `protobuf:"bytes,1,opt,name=maneuver_id,json=maneuverId,proto3" json:"maneuver_id,omitempty"`
	Kind       string `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Reason     string `protobuf:"bytes,3,opt,name=reason,proto3" json:"reason,omitempty"`
	ElapsedMs  int64  `protobuf:"varint,4,opt,name=elapsed_ms,json=elapsedMs,proto3" json:"elapsed_ms,omitempty"`
	Pose       *Pose  `protobuf:"bytes,5,opt,name=pose,proto3" json:"pose,omitempty"`
	Error      string `protobuf:"bytes,6,opt,name=error,proto3" json:"error,omitempty"`
}

func (m *ManeuverDone) Reset()         { *m = ManeuverDone{} }
func (m *ManeuverDone) String() string { return proto.CompactTextString(m) }
func (*ManeuverDone) ProtoMessage()    {}
