// Package sh is the interactive shell stations use to command robots,
// either a robot in the same process or one reached through MQTT.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/motion.go/pkg/comm/mqtt"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

// Commander executes commands on a robot.
type Commander interface {
	Do(ctx context.Context, msg fx.Message) (fx.Message, error)
}

// Config defines how the shell reaches robots.
type Config struct {
	// MQTTBrokerURL is used to discover and connect robots.
	MQTTBrokerURL string
	// RobotID connects this robot on start, discovered when empty.
	RobotID string
	Timeout time.Duration
}

// DefaultTimeout bounds waiting for a reply.
const DefaultTimeout = time.Second

var (
	defaultConfig = Config{
		MQTTBrokerURL: "mqtt://localhost:1883/motion/",
		Timeout:       DefaultTimeout,
	}

	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&WatchCmd,
	}
)

func init() {
	if val := os.Getenv("MOTION_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// SetupFlags sets the flags for reaching remote robots.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.RobotID, "robot", defaultConfig.RobotID, "Robot ID to connect.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Command reply timeout.")
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// Watch levels
const (
	WatchNone = iota
	// WatchManeuvers prints maneuver Done events.
	WatchManeuvers
	// WatchAll prints every event.
	WatchAll
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *Config

	lock      sync.Mutex
	commander Commander
	remote    *remote
	watch     int
}

type remote struct {
	id     string
	conn   *mqtt.Conn
	cancel func()
	doneCh chan struct{}
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Shell:       ishell.New(),
		Config:      conf,
		watch:       WatchManeuvers,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Attach commands a robot directly, without a connection.
func (s *Shell) Attach(name string, c Commander) *Shell {
	s.Disconnect()
	s.lock.Lock()
	s.commander = c
	s.lock.Unlock()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
	return s
}

// Commander returns the robot being commanded, nil if none.
func (s *Shell) Commander() Commander {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.commander
}

// SetWatch sets which events are printed.
func (s *Shell) SetWatch(level int) {
	s.lock.Lock()
	s.watch = level
	s.lock.Unlock()
}

// SendEvent prints events according to the watch level. It implements
// comm.EventSender so a local robot can report to the shell.
func (s *Shell) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.Lock()
	level := s.watch
	s.lock.Unlock()
	_, isDone := msg.(*msgs.Done)
	if level >= WatchAll || (level == WatchManeuvers && isDone) {
		out, err := s.Format(msg)
		if err != nil {
			return err
		}
		s.Shell.Println(out)
	}
	return nil
}

// HandleMessage implements fx.MessageHandler for events from a connection.
func (s *Shell) HandleMessage(ctx context.Context, msg fx.Message) {
	if err := s.SendEvent(ctx, msg); err != nil {
		glog.Warningf("shell: print %T: %v", msg, err)
	}
}

// Format renders a message for display.
func (s *Shell) Format(msg fx.Message) (string, error) {
	serializable, ok := msg.(msgs.SerializableMessage)
	if !ok {
		return "", msgs.ErrNotSerializable
	}
	if s.OutputJSON {
		out, err := json.Marshal(serializable.Serializable())
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", reflect.Indirect(reflect.ValueOf(msg)).Type().Name())
	if str := serializable.Serializable().String(); str != "" {
		fmt.Fprintf(&w, " %s", str)
	}
	return w.String(), nil
}

// Do runs a command and waits for the reply.
func (s *Shell) Do(msg fx.Message) (fx.Message, error) {
	commander := s.Commander()
	if commander == nil {
		return nil, errors.New("not connected")
	}
	timeout := s.Config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	reply, err := commander.Do(ctx, msg)
	if err == context.DeadlineExceeded {
		err = errors.New("command timeout")
	}
	return reply, err
}

// DoCommand runs a command and prints the reply.
func DoCommand(c *ishell.Context, msg fx.Message) (fx.Message, error) {
	s := ShellFrom(c)
	reply, err := s.Do(msg)
	if err != nil {
		c.Err(err)
		return nil, err
	}
	if ok, isOK := reply.(*msgs.CommandOK); isOK && !s.OutputJSON {
		if ok.ManeuverId != "" {
			c.Println("OK", ok.ManeuverId)
		} else {
			c.Println("OK")
		}
		return reply, nil
	}
	out, err := s.Format(reply)
	if err != nil {
		c.Err(err)
		return reply, err
	}
	c.Println(out)
	return reply, nil
}

// MustBeConnected wraps command func requires a robot.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Commander() == nil {
			c.Err(errors.New("not connected"))
			return
		}
		fn(c)
	}
}

// DiscoverRobots lists the robots online on the broker.
func (s *Shell) DiscoverRobots() ([]string, error) {
	if s.Config.MQTTBrokerURL == "" {
		return nil, errors.New("no MQTT broker")
	}
	return mqtt.Discover(context.Background(), s.Config.MQTTBrokerURL, mqtt.DefaultDiscoverTimeout)
}

// SelectRobot discovers robots and asks for a choice, empty when none is
// online.
func (s *Shell) SelectRobot() (string, error) {
	ids, err := s.DiscoverRobots()
	if err != nil || len(ids) == 0 {
		return "", err
	}
	if len(ids) == 1 {
		return ids[0], nil
	}
	if !s.Interactive {
		return "", errors.New("more than 1 robots discovered in non-interactive mode")
	}
	return ids[s.Shell.MultiChoice(ids, "Which one to connect?")], nil
}

// Connect connects the robot through MQTT.
func (s *Shell) Connect(id string) error {
	ctx, cancel := context.WithCancel(context.Background())
	conn, err := mqtt.Connect(ctx, s.Config.MQTTBrokerURL, id)
	if err != nil {
		cancel()
		return err
	}
	conn.OnEvent = s
	r := &remote{id: id, conn: conn, cancel: cancel, doneCh: make(chan struct{})}
	go func() {
		defer close(r.doneCh)
		if err := conn.Run(ctx); err != nil && errors.Cause(err) != context.Canceled {
			glog.Errorf("shell: connection to %s: %v", id, err)
		}
	}()
	s.Disconnect()
	s.lock.Lock()
	s.remote, s.commander = r, conn
	s.lock.Unlock()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", id))
	return nil
}

// Disconnect drops the current robot.
func (s *Shell) Disconnect() {
	s.lock.Lock()
	r := s.remote
	s.remote, s.commander = nil, nil
	s.lock.Unlock()
	if r != nil {
		r.cancel()
		<-r.doneCh
		if err := r.conn.Close(); err != nil {
			glog.Warningf("shell: close %s: %v", r.id, err)
		}
	}
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Commander() == nil {
		id := s.Config.RobotID
		if id == "" {
			var err error
			if id, err = s.SelectRobot(); err != nil {
				glog.Exitf("discover: %v", err)
			}
		}
		if id != "" {
			if s.Interactive {
				s.Shell.Printf("Connecting %s ...\n", id)
			}
			if err := s.Connect(id); err != nil {
				glog.Exitf("connect %q failed: %v", id, err)
			}
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

var (
	// DiscoverCmd discovers robots.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ids, err := s.DiscoverRobots()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(ids) == 0 {
					// in case ids is nil, make it empty slice.
					ids = []string{}
				}
				out, err := json.Marshal(ids)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(ids) == 0 {
				c.Println("No robots found")
				return
			}
			for _, id := range ids {
				c.Println(id)
			}
		},
	}

	// ConnectCmd connects a robot.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var id string
			if len(c.Args) > 0 {
				id = c.Args[0]
			} else {
				var err error
				if id, err = s.SelectRobot(); err != nil {
					c.Err(err)
					return
				}
				if id == "" {
					c.Err(errors.New("no robot discovered"))
					return
				}
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current robot.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// WatchCmd selects the events printed.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "none|maneuvers|all",
		Func: func(c *ishell.Context) {
			levels := map[string]int{"none": WatchNone, "maneuvers": WatchManeuvers, "all": WatchAll}
			if len(c.Args) != 1 {
				c.Err(errors.New("LEVEL required"))
				return
			}
			level, ok := levels[c.Args[0]]
			if !ok {
				c.Err(errors.Errorf("unknown watch level %q", c.Args[0]))
				return
			}
			ShellFrom(c).SetWatch(level)
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
