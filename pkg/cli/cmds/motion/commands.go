// Package motion adds the motion commands to the shell.
package motion

import (
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"

	"github.com/robotalks/motion.go/pkg/cli/sh"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
	pb "github.com/robotalks/motion.go/pkg/proto/motion/v1"
)

// isOption tells "-reverse" from "-1.5".
func isOption(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err != nil
}

// parseArgs parses the positional numbers named by required and then
// optional, missing optional ones are 0. n is the number given. Words
// like -name or -name=value are returned as options.
func parseArgs(args []string, required []string, optional ...string) (vals []float64, n int, opts map[string]string, err error) {
	opts = make(map[string]string)
	names := append(append([]string{}, required...), optional...)
	for _, arg := range args {
		if isOption(arg) {
			kv := strings.SplitN(strings.TrimLeft(arg, "-"), "=", 2)
			if len(kv) == 1 {
				kv = append(kv, "")
			}
			opts[kv[0]] = kv[1]
			continue
		}
		if len(vals) >= len(names) {
			return nil, 0, nil, errors.Errorf("unexpected argument %q", arg)
		}
		val, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, 0, nil, errors.Errorf("invalid %s: %v", names[len(vals)], err)
		}
		vals = append(vals, val)
	}
	n = len(vals)
	if n < len(required) {
		return nil, 0, nil, errors.Errorf("%s required", strings.Join(required[n:], " "))
	}
	for len(vals) < len(names) {
		vals = append(vals, 0)
	}
	return vals, n, opts, nil
}

func hasOpt(opts map[string]string, names ...string) bool {
	for _, name := range names {
		if _, ok := opts[name]; ok {
			return true
		}
	}
	return false
}

// ParseTurn parses "TARGET [MAXPCT]".
func ParseTurn(args []string) (fx.Message, error) {
	vals, _, _, err := parseArgs(args, []string{"TARGET"}, "MAXPCT")
	if err != nil {
		return nil, err
	}
	return &msgs.Turn{TurnCommand: pb.TurnCommand{Target: vals[0], MaxPct: vals[1]}}, nil
}

// ParseFace parses "X Y [MAXPCT] [-reverse]".
func ParseFace(args []string) (fx.Message, error) {
	vals, _, opts, err := parseArgs(args, []string{"X", "Y"}, "MAXPCT")
	if err != nil {
		return nil, err
	}
	return &msgs.Face{FaceCommand: pb.FaceCommand{
		Target:  &pb.Point{X: vals[0], Y: vals[1]},
		Reverse: hasOpt(opts, "reverse", "r"),
		MaxPct:  vals[2],
	}}, nil
}

// ParseDrive parses "DISTANCE [HEADING] [MAXPCT]". Without HEADING the
// current heading is held.
func ParseDrive(args []string) (fx.Message, error) {
	vals, n, _, err := parseArgs(args, []string{"DISTANCE"}, "HEADING", "MAXPCT")
	if err != nil {
		return nil, err
	}
	return &msgs.Drive{DriveCommand: pb.DriveCommand{
		Distance:    vals[0],
		Heading:     vals[1],
		KeepHeading: n < 2,
		MaxPct:      vals[2],
	}}, nil
}

// ParseGoto parses "X Y [MAXPCT] [-reverse] [-face]".
func ParseGoto(args []string) (fx.Message, error) {
	vals, _, opts, err := parseArgs(args, []string{"X", "Y"}, "MAXPCT")
	if err != nil {
		return nil, err
	}
	return &msgs.Goto{GotoCommand: pb.GotoCommand{
		Target:    &pb.Point{X: vals[0], Y: vals[1]},
		Reverse:   hasOpt(opts, "reverse", "r"),
		MaxPct:    vals[2],
		FaceFirst: hasOpt(opts, "face", "f"),
	}}, nil
}

// ParseFollow parses "X1 Y1 X2 Y2 ... [-reverse] [-basis=NAME]".
func ParseFollow(args []string) (fx.Message, error) {
	msg := &msgs.Follow{}
	var coords []float64
	for _, arg := range args {
		switch {
		case arg == "-reverse" || arg == "-r":
			msg.Reverse = true
		case strings.HasPrefix(arg, "-basis="):
			msg.Basis = strings.TrimPrefix(arg, "-basis=")
		case isOption(arg):
			return nil, errors.Errorf("unknown option %q", arg)
		default:
			val, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, errors.Errorf("invalid coordinate %q", arg)
			}
			coords = append(coords, val)
		}
	}
	if len(coords)%2 != 0 {
		return nil, errors.New("coordinates must come in X Y pairs")
	}
	for i := 0; i < len(coords); i += 2 {
		msg.Points = append(msg.Points, &pb.Point{X: coords[i], Y: coords[i+1]})
	}
	return msg, nil
}

// ParseSetPose parses "X Y HEADING", the heading in polar degrees.
func ParseSetPose(args []string) (fx.Message, error) {
	vals, _, _, err := parseArgs(args, []string{"X", "Y", "HEADING"})
	if err != nil {
		return nil, err
	}
	return &msgs.SetPose{SetPoseCommand: pb.SetPoseCommand{Pose: &pb.Pose{X: vals[0], Y: vals[1], Heading: vals[2]}}}, nil
}

func command(parse func([]string) (fx.Message, error)) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		msg, err := parse(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		sh.DoCommand(c, msg)
	})
}

func noArgs(msg fx.Message) func([]string) (fx.Message, error) {
	return func([]string) (fx.Message, error) {
		return msg.NewMessage(), nil
	}
}

var (
	// TurnCmd exposes Turn command.
	TurnCmd = ishell.Cmd{
		Name:    "turn",
		Aliases: []string{"t"},
		Help:    "TARGET(field degrees) [MAXPCT]",
		Func:    command(ParseTurn),
	}

	// FaceCmd exposes Face command.
	FaceCmd = ishell.Cmd{
		Name:    "face",
		Aliases: []string{"f"},
		Help:    "X Y(tiles) [MAXPCT] [-reverse]",
		Func:    command(ParseFace),
	}

	// DriveCmd exposes Drive command.
	DriveCmd = ishell.Cmd{
		Name:    "drive",
		Aliases: []string{"dr"},
		Help:    "DISTANCE(tiles) [HEADING(field degrees)] [MAXPCT]",
		Func:    command(ParseDrive),
	}

	// GotoCmd exposes Goto command.
	GotoCmd = ishell.Cmd{
		Name:    "goto",
		Aliases: []string{"g"},
		Help:    "X Y(tiles) [MAXPCT] [-reverse] [-face]",
		Func:    command(ParseGoto),
	}

	// FollowCmd exposes Follow command.
	FollowCmd = ishell.Cmd{
		Name:    "follow",
		Aliases: []string{"path"},
		Help:    "X1 Y1 X2 Y2 X3 Y3 X4 Y4 ... [-reverse] [-basis=catmull-rom|bezier|hermite|b-spline]",
		Func:    command(ParseFollow),
	}

	// CancelCmd exposes Cancel command.
	CancelCmd = ishell.Cmd{
		Name:    "cancel",
		Aliases: []string{"stop", "x"},
		Help:    "",
		Func:    command(noArgs(&msgs.Cancel{})),
	}

	// PoseCmd exposes PoseQuery command.
	PoseCmd = ishell.Cmd{
		Name:    "pose",
		Aliases: []string{"p"},
		Help:    "",
		Func:    command(noArgs(&msgs.PoseQuery{})),
	}

	// SetPoseCmd exposes SetPose command.
	SetPoseCmd = ishell.Cmd{
		Name:    "setpose",
		Aliases: []string{"sp"},
		Help:    "X Y(tiles) HEADING(polar degrees)",
		Func:    command(ParseSetPose),
	}
)

func init() {
	sh.AddCmds(
		&TurnCmd,
		&FaceCmd,
		&DriveCmd,
		&GotoCmd,
		&FollowCmd,
		&CancelCmd,
		&PoseCmd,
		&SetPoseCmd,
	)
}
