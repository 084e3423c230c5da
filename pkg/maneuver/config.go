package maneuver

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/motion.go/pkg/control"
	"github.com/robotalks/motion.go/pkg/drive"
)

// TurnConfig tunes TurnToAngle.
type TurnConfig struct {
	Volt     control.PIDGains       `yaml:"volt"`
	Velocity control.PIDGains       `yaml:"velocity"`
	Patience control.PatienceConfig `yaml:"patience"`
	MaxPct   float64                `yaml:"max_pct"`
	// VoltAbovePct selects voltage control when the speed limit exceeds it.
	VoltAbovePct float64 `yaml:"volt_above_pct"`
	VoltClamp    float64 `yaml:"volt_clamp"`
}

// DriveConfig tunes DriveDistance. Distances are in inches.
type DriveConfig struct {
	Distance   control.PIDGains       `yaml:"distance"`
	Heading    control.PIDGains       `yaml:"heading"`
	Patience   control.PatienceConfig `yaml:"patience"`
	MaxPct     float64                `yaml:"max_pct"`
	MaxTurnPct float64                `yaml:"max_turn_pct"`
	VoltClamp  float64                `yaml:"volt_clamp"`
}

// DriveTurnConfig tunes DriveTurnToFace. Distances are in tiles.
type DriveTurnConfig struct {
	Distance   control.PIDGains       `yaml:"distance"`
	Heading    control.PIDGains       `yaml:"heading"`
	Patience   control.PatienceConfig `yaml:"patience"`
	MaxPct     float64                `yaml:"max_pct"`
	MaxTurnPct float64                `yaml:"max_turn_pct"`
	VoltClamp  float64                `yaml:"volt_clamp"`
	// AimDistance is the remaining distance below which the heading target
	// stops following the target point.
	AimDistance float64 `yaml:"aim_distance"`
}

// FollowConfig tunes FollowPath.
type FollowConfig struct {
	// PathToPct converts path velocity (tiles/s) into motor percent, 0
	// derives it from the drive geometry.
	PathToPct float64 `yaml:"path_to_pct"`
	// Linger is how long the path keeps being tracked after the profile
	// ends.
	Linger time.Duration `yaml:"linger"`
	// SamplesPerSegment sets the arc length sampler resolution.
	SamplesPerSegment int     `yaml:"samples_per_segment"`
	MinVelocity       float64 `yaml:"min_velocity"`
	MaxVelocity       float64 `yaml:"max_velocity"`
	MaxAccel          float64 `yaml:"max_accel"`
	MaxDecel          float64 `yaml:"max_decel"`
}

// Config defines the maneuver loops.
type Config struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	// RelativeRotation wraps heading errors into [-180, 180) so the robot
	// takes the short way around instead of unwinding.
	RelativeRotation bool `yaml:"relative_rotation"`

	Turn      TurnConfig      `yaml:"turn"`
	Drive     DriveConfig     `yaml:"drive"`
	DriveTurn DriveTurnConfig `yaml:"drive_turn"`
	Follow    FollowConfig    `yaml:"follow"`
}

// Defaults
const (
	DefaultInterval = 20 * time.Millisecond
	DefaultTimeout  = 3 * time.Second

	// settle band of linear moves, in tiles.
	moveSettleTiles = 0.08
	// settle band of turns, in degrees.
	turnSettleDegrees = 5
	// plateau observations skipped while the drivetrain spins up.
	warmUpTicks = 5
)

var defaultConfig = Config{
	Interval: DefaultInterval,
	Timeout:  DefaultTimeout,
	Turn: TurnConfig{
		Volt:         control.Gains(2.5, 0, 0.16).WithSettle(turnSettleDegrees, control.DefaultSettleFrames),
		Velocity:     control.Gains(0.4, 0, 0.03).WithSettle(turnSettleDegrees, control.DefaultSettleFrames),
		Patience:     control.PatienceConfig{Max: 8, MinDelta: 1, Delay: warmUpTicks},
		MaxPct:       90,
		VoltAbovePct: 25,
		VoltClamp:    10,
	},
	Drive: DriveConfig{
		Distance:   control.Gains(17, 0, 1.6).WithSettle(moveSettleTiles*drive.DefaultGeometry().TileLength, control.DefaultSettleFrames),
		Heading:    control.Gains(1, 0.05, 0.01).WithSettle(turnSettleDegrees, control.DefaultSettleFrames),
		Patience:   control.PatienceConfig{Max: 4, MinDelta: 1, Delay: warmUpTicks},
		MaxPct:     100,
		MaxTurnPct: 100,
		VoltClamp:  10,
	},
	DriveTurn: DriveTurnConfig{
		Distance:    control.Gains(90, 0, 6).WithSettle(moveSettleTiles, 3),
		Heading:     control.Gains(2, 0, 0).WithSettle(turnSettleDegrees, 3),
		Patience:    control.PatienceConfig{Max: 4, MinDelta: 0.01, Delay: warmUpTicks},
		MaxPct:      100,
		MaxTurnPct:  100,
		VoltClamp:   drive.MaxVoltage,
		AimDistance: 0.3,
	},
	Follow: FollowConfig{
		Linger:            10 * time.Millisecond,
		SamplesPerSegment: 7,
		MinVelocity:       0.5,
		MaxVelocity:       3,
		MaxAccel:          4,
		MaxDecel:          4,
	},
}

func init() {
	if v, err := strconv.ParseBool(os.Getenv("MOTION_RELATIVE_ROTATION")); err == nil {
		defaultConfig.RelativeRotation = v
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.Interval, "maneuver-interval", defaultConfig.Interval, "Maneuver control loop interval.")
	flag.DurationVar(&defaultConfig.Timeout, "maneuver-timeout", defaultConfig.Timeout, "Default maneuver timeout.")
	flag.BoolVar(&defaultConfig.RelativeRotation, "relative-rotation", defaultConfig.RelativeRotation, "Turn the short way around.")
	flag.Float64Var(&defaultConfig.Follow.PathToPct, "path-to-pct", defaultConfig.Follow.PathToPct, "Path velocity (tiles/s) to motor percent, 0 to derive from geometry.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewRunner creates a Runner driving d with poses from src.
func (c *Config) NewRunner(d *drive.Differential, src PoseSource) *Runner {
	return NewRunner(&Env{Drive: d, Pose: src, Config: c})
}

// PlanOptions derives path planning options for the geometry.
func (c *Config) PlanOptions(g drive.Geometry) PlanOptions {
	return PlanOptions{
		SamplesPerSegment: c.Follow.SamplesPerSegment,
		MinVelocity:       c.Follow.MinVelocity,
		MaxVelocity:       c.Follow.MaxVelocity,
		MaxAccel:          c.Follow.MaxAccel,
		MaxDecel:          c.Follow.MaxDecel,
		TrackWidth:        g.TrackWidth / g.TileLength,
	}
}
