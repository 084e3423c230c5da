package main

//go-build: CGO_ENABLED=0

import (
	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/cli/sh"

	_ "github.com/robotalks/motion.go/pkg/cli/cmds/motion"
)

func init() {
	sh.SetupFlags()
}

func main() {
	defer glog.Flush()
	sh.Main()
}
