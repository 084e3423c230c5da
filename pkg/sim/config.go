package sim

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/motion.go/pkg/drive"
)

// Config defines the simulated drivetrain.
type Config struct {
	// Accel is the wheel acceleration limit in inches/s², 0 for instant.
	Accel float64 `yaml:"accel"`
	// GyroDrift is the fraction of rotation the gyro over-reports.
	GyroDrift float64 `yaml:"gyro_drift"`
}

// Defaults
const (
	DefaultAccel float64 = 400
)

var defaultConfig = Config{
	Accel: DefaultAccel,
}

func init() {
	if v, err := strconv.ParseFloat(os.Getenv("MOTION_SIM_GYRO_DRIFT"), 64); err == nil {
		defaultConfig.GyroDrift = v
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Accel, "sim-accel", defaultConfig.Accel, "Wheel acceleration limit (in/s²) of the simulated drivetrain, 0 for instant.")
	flag.Float64Var(&defaultConfig.GyroDrift, "sim-gyro-drift", defaultConfig.GyroDrift, "Fraction of rotation the simulated gyro over-reports.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewDrivetrain creates the Drivetrain.
func (c *Config) NewDrivetrain(g drive.Geometry) *Drivetrain {
	d := NewDrivetrain(g, c.Accel)
	d.gyro.SetDrift(c.GyroDrift)
	return d
}
