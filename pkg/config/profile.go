// Package config loads robot profiles: the drivetrain geometry, sensor
// drift and controller tuning of one robot, kept in a YAML file.
package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/maneuver"
	"github.com/robotalks/motion.go/pkg/sim"
)

// OdometryProfile describes the tracking sensors.
type OdometryProfile struct {
	// Interval between odometry updates.
	Interval time.Duration `yaml:"interval"`
	// CWDrift and CCWDrift are the degrees the heading sensor gains per
	// clockwise and counter-clockwise revolution.
	CWDrift  float64 `yaml:"cw_drift"`
	CCWDrift float64 `yaml:"ccw_drift"`
	// StartX, StartY and StartHeading place the robot on the field, in
	// tiles and field degrees.
	StartX       float64 `yaml:"start_x"`
	StartY       float64 `yaml:"start_y"`
	StartHeading float64 `yaml:"start_heading"`
}

// Profile is everything tunable about a robot.
type Profile struct {
	Name     string          `yaml:"name"`
	Geometry drive.Geometry  `yaml:"geometry"`
	Odometry OdometryProfile `yaml:"odometry"`
	Maneuver maneuver.Config `yaml:"maneuver"`
	Sim      sim.Config      `yaml:"sim"`
}

// DefaultOdometryInterval is the default odometry update interval.
const DefaultOdometryInterval = 10 * time.Millisecond

var profilePath string

func init() {
	profilePath = os.Getenv("MOTION_PROFILE")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&profilePath, "profile", profilePath, "Robot profile YAML file.")
}

// Default builds a profile from the package defaults, which already
// include the command line flags.
func Default() *Profile {
	return &Profile{
		Name:     "default",
		Geometry: drive.DefaultGeometry(),
		Odometry: OdometryProfile{Interval: DefaultOdometryInterval},
		Maneuver: *maneuver.NewConfig(),
		Sim:      *sim.NewConfig(),
	}
}

// Decode reads a profile, values not in r keep their defaults.
func Decode(r io.Reader) (*Profile, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads a profile file.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open profile")
	}
	defer f.Close()
	p, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %s", path)
	}
	glog.Infof("profile %q loaded from %s", p.Name, path)
	return p, nil
}

// Current loads the profile named by -profile or MOTION_PROFILE, the
// defaults when neither is set.
func Current() (*Profile, error) {
	if profilePath == "" {
		return Default(), nil
	}
	return Load(profilePath)
}

// Validate rejects geometry the controllers can not work with.
func (p *Profile) Validate() error {
	g := p.Geometry
	for name, v := range map[string]float64{
		"track_width":    g.TrackWidth,
		"wheel_diameter": g.WheelDiameter,
		"gear_ratio":     g.GearRatio,
		"motor_rpm":      g.MotorRPM,
		"tile_length":    g.TileLength,
	} {
		if v <= 0 {
			return errors.Errorf("geometry %s must be positive, got %v", name, v)
		}
	}
	if p.Maneuver.Interval <= 0 {
		return errors.Errorf("maneuver interval must be positive, got %v", p.Maneuver.Interval)
	}
	return nil
}

// Encode writes the profile as YAML.
func (p *Profile) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return errors.Wrap(err, "encode profile")
	}
	return enc.Close()
}
