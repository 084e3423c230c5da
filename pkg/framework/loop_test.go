package framework

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type note string

func (n note) NewMessage() Message { return note("") }

func TestLoopPriorityOrder(t *testing.T) {
	var order []int
	l := NewLoop()
	for _, lv := range []int{PrLvPostProc, PrLvSense, PrLvAcuate, PrLvControl} {
		lv := lv
		l.AddController(lv, ControlFunc(func(ctx ControlContext) error {
			require.Equal(t, lv, ctx.PriorityLevel())
			order = append(order, lv)
			return nil
		}))
	}
	l.Step(context.Background())
	assert.Equal(t, []int{PrLvSense, PrLvControl, PrLvAcuate, PrLvPostProc}, order)
}

func TestLoopHooksAreOneShot(t *testing.T) {
	var pre, post int
	l := NewLoop()
	l.PreRunAt(PrLvControl, ControlFunc(func(ControlContext) error { pre++; return nil }))
	l.PostRunAt(PrLvControl, ControlFunc(func(ControlContext) error { post++; return nil }))
	l.Step(context.Background())
	l.Step(context.Background())
	assert.Equal(t, 1, pre)
	assert.Equal(t, 1, post)
}

func TestLoopMessages(t *testing.T) {
	var seen []Message
	l := NewLoop()
	l.AddController(PrLvControl, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if mc.CurrentMessage() == note("take") {
				mc.MessageTaken()
			}
		}))
		return nil
	}))
	l.AddController(PrLvPostProc, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen = append(seen, mc.CurrentMessage())
			mc.MessageTaken()
		}))
		return nil
	}))
	l.PostMessage(note("take"))
	l.PostMessage(note("keep"))
	l.Step(context.Background())
	assert.Equal(t, []Message{note("keep")}, seen)
}

func TestLoopRunsOnClock(t *testing.T) {
	mock := clock.NewMock()
	l := &Loop{Interval: 10 * time.Millisecond, Clock: mock}
	ticks := make(chan time.Time, 16)
	l.AddController(PrLvSense, ControlFunc(func(ctx ControlContext) error {
		ticks <- ctx.Time()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	// wait for the ticker to be registered before advancing.
	require.Eventually(t, func() bool {
		mock.Add(10 * time.Millisecond)
		return len(ticks) > 0
	}, time.Second, time.Millisecond)
	at := <-ticks
	assert.False(t, at.IsZero())

	cancel()
	assert.Equal(t, context.Canceled, <-done)
}

type failing struct{ err error }

func (f failing) Run(context.Context) error { return f.err }

func TestRunnerAggregatesErrors(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	err := NewRunner().Go(failing{e1}, failing{context.Canceled}, failing{e2}).Wait()
	require.Error(t, err)
	assert.ElementsMatch(t, []error{e1, e2}, multierr.Errors(err))

	require.NoError(t, NewRunner().Go(failing{nil}, failing{context.Canceled}).Wait())
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	var canceled bool
	go cancel()
	err := RunWithContextCancel(ctx, func() {
		canceled = true
		close(release)
	}, func() error {
		<-release
		return nil
	})
	assert.Equal(t, context.Canceled, err)
	assert.True(t, canceled)
}

func TestNamedRun(t *testing.T) {
	var ran bool
	r := NamedRun("robot", RunnableFunc(func(context.Context) error {
		ran = true
		return nil
	}))
	named, ok := r.(Named)
	require.True(t, ok)
	assert.Equal(t, "robot", named.Name())
	require.NoError(t, NewRunner().Go(r).Wait())
	assert.True(t, ran)
}
