package robot

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/robotalks/motion.go/pkg/comm"
	"github.com/robotalks/motion.go/pkg/comm/mqtt"
	"github.com/robotalks/motion.go/pkg/comm/stream"
	"github.com/robotalks/motion.go/pkg/comm/websocket"
	"github.com/robotalks/motion.go/pkg/config"
	"github.com/robotalks/motion.go/pkg/drive"
	"github.com/robotalks/motion.go/pkg/drive/canbus"
	"github.com/robotalks/motion.go/pkg/env"
)

// Config selects how a robot is wired up.
type Config struct {
	ID string
	// MQTTBrokerURL specifies the MQTT broker to use, empty to disable.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr is the listen address of the websocket hub, empty to
	// disable.
	WebsocketAddr string
	// RecordPath records all events into a file, empty to disable.
	RecordPath string
	// CANInterface drives real motor controllers in addition to the
	// simulated plant, empty to disable.
	CANInterface string
	CANBaseID    uint
	// ReportEvery is the number of loop ticks between pose reports.
	ReportEvery int
}

// Defaults
const (
	DefaultReportEvery = 5
	DefaultCANBaseID   = 0x100
)

var defaultConfig = Config{
	ReportEvery: DefaultReportEvery,
	CANBaseID:   DefaultCANBaseID,
}

func init() {
	if val := os.Getenv("MOTION_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("MOTION_ROBOT_ID"); val != "" {
		defaultConfig.ID = val
	}
	if v, err := strconv.Atoi(os.Getenv("MOTION_REPORT_EVERY")); err == nil {
		defaultConfig.ReportEvery = v
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Robot ID, derived from the machine ID when empty.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address.")
	flag.StringVar(&defaultConfig.RecordPath, "record", defaultConfig.RecordPath, "Record events into this file.")
	flag.StringVar(&defaultConfig.CANInterface, "can", defaultConfig.CANInterface, "SocketCAN interface of the motor controllers.")
	flag.UintVar(&defaultConfig.CANBaseID, "can-base-id", defaultConfig.CANBaseID, "CAN ID of the left motor command frame.")
	flag.IntVar(&defaultConfig.ReportEvery, "report-every", defaultConfig.ReportEvery, "Loop ticks between pose reports.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewRobot creates the robot with its links.
func (c *Config) NewRobot(ctx context.Context, p *config.Profile) (r *Robot, err error) {
	id := c.ID
	if id == "" {
		id = env.RobotID("motion")
	}
	var closers []func() error
	defer func() {
		if err != nil {
			for _, fn := range closers {
				err = multierr.Append(err, fn())
			}
		}
	}()

	var extra []drive.Motors
	if c.CANInterface != "" {
		motors, closeFn, err := canbus.Dial(ctx, c.CANInterface, uint32(c.CANBaseID))
		if err != nil {
			return nil, err
		}
		closers = append(closers, closeFn)
		extra = append(extra, motors)
	}

	r = New(id, p, extra...)
	r.ReportEvery = c.ReportEvery

	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, id)
		if err != nil {
			return nil, errors.Wrap(err, "create MQTT registrar")
		}
		r.Events.Add(reg)
	}
	if c.WebsocketAddr != "" {
		r.Events.Add(websocket.NewHub(c.WebsocketAddr))
	}
	if c.RecordPath != "" {
		rec, err := stream.Create(c.RecordPath)
		if err != nil {
			return nil, err
		}
		closers = append(closers, rec.Close)
		r.Events.Add(&comm.EventWriter{Writer: rec})
	}
	r.closers = closers
	glog.Infof("robot %s: %d event links", id, len(r.Events.Registrars))
	return r, nil
}
