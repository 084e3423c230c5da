package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/cli/sh"
	"github.com/robotalks/motion.go/pkg/config"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/maneuver"
	"github.com/robotalks/motion.go/pkg/robot"
	"github.com/robotalks/motion.go/pkg/sim"

	_ "github.com/robotalks/motion.go/pkg/cli/cmds/motion"
)

var headless bool

func init() {
	config.SetupFlags()
	robot.SetupFlags()
	maneuver.SetupFlags()
	sim.SetupFlags()
	flag.BoolVar(&headless, "headless", headless, "Run without the shell, commands come from stations only.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	profile, err := config.Current()
	if err != nil {
		glog.Exit(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r, err := robot.NewConfig().NewRobot(ctx, profile)
	if err != nil {
		glog.Exit(err)
	}
	defer r.Close()

	loop := r.NewLoop()
	if headless {
		if err := fx.NewRunnerWith(ctx).HandleSignals().Go(loop).Wait(); err != nil && err != context.Canceled {
			glog.Exit(err)
		}
		return
	}

	shell := sh.New(sh.NewConfig()).Attach(r.ID, r)
	r.Events.Add(shell)
	go loop.Run(ctx)
	shell.Run(flag.Args()...)
}
