package mqtt

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robotalks/motion.go/pkg/comm"
	fx "github.com/robotalks/motion.go/pkg/framework"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Discover lists the IDs of robots reporting online within wait.
func Discover(ctx context.Context, brokerURL string, wait time.Duration) ([]string, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err := q.ConnectWait(ctx); err != nil {
		return nil, err
	}
	defer q.Close()

	var lock sync.Mutex
	online := make(map[string]bool)
	sub := q.Sub("+/"+TopicStatus, Handler(func(topic string, payload []byte) {
		lock.Lock()
		online[strings.TrimSuffix(topic, "/"+TopicStatus)] = string(payload) == StatusOnline
		lock.Unlock()
	}))
	defer sub.Close()

	if wait == 0 {
		wait = DefaultDiscoverTimeout
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	lock.Lock()
	defer lock.Unlock()
	var ids []string
	for id, ok := range online {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Conn is a station's connection to one robot.
type Conn struct {
	*comm.Client
	Queue *Queue

	rw *ReadWriter
}

// Connect connects to the robot robotID through the broker.
func Connect(ctx context.Context, brokerURL, robotID string) (*Conn, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if err := q.ConnectWait(ctx); err != nil {
		return nil, err
	}
	rw := NewPacketReadWriter(q).ForStation(robotID)
	if err := rw.Subscribe(ctx); err != nil {
		q.Close()
		return nil, err
	}
	return &Conn{Client: comm.NewClient(rw), Queue: q, rw: rw}, nil
}

// Run implements Runnable.
func (c *Conn) Run(ctx context.Context) error {
	return fx.NewRunnerWith(ctx).Go(c.rw, c.Client).Wait()
}

// Close disconnects from the broker.
func (c *Conn) Close() error {
	c.Client.Close()
	return c.Queue.Close()
}
