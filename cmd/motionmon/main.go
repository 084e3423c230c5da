package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/comm/mqtt"
	"github.com/robotalks/motion.go/pkg/comm/stream"
	fx "github.com/robotalks/motion.go/pkg/framework"
	"github.com/robotalks/motion.go/pkg/msgs"
)

var (
	mqttURL    = "mqtt://localhost:1883/motion/"
	replayPath string
)

func init() {
	if val := os.Getenv("MOTION_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&replayPath, "replay", replayPath, "Print a recording instead of watching the broker.")
}

func printPacket(source string, payload []byte) {
	msg, typed, err := msgs.Decode(payload)
	if err != nil {
		if typed != nil {
			glog.Warningf("%s: decode error: (type_id=%x) %v", source, typed.TypeId, err)
		} else {
			glog.Warningf("%s: bad message: %v", source, err)
		}
		return
	}
	glog.Infof("%s: [%s] %s", source,
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(msgs.SerializableMessage).Serializable().String())
}

func replay(path string) error {
	rec, err := stream.Open(path)
	if err != nil {
		return err
	}
	defer rec.Close()
	for {
		pkt, err := rec.ReadPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		printPacket(path, pkt)
	}
}

func watch(ctx context.Context) error {
	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		return err
	}
	if err := q.ConnectWait(ctx); err != nil {
		return err
	}
	defer q.Close()
	sub := q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.TopicStatus) {
			glog.Infof("%s: %s", topic, string(payload))
			return
		}
		printPacket(topic, payload)
	}))
	defer sub.Close()
	<-ctx.Done()
	return nil
}

func main() {
	flag.Parse()
	defer glog.Flush()
	// glog only writes files by default.
	flag.Set("logtostderr", "true")

	var err error
	if replayPath != "" {
		err = replay(replayPath)
	} else {
		err = fx.NewRunner().HandleSignals().Go(fx.NamedRun("watch", fx.RunnableFunc(watch))).Wait()
	}
	if err != nil && err != context.Canceled {
		glog.Exit(err)
	}
}
