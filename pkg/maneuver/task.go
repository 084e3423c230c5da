package maneuver

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrBusy is returned when a maneuver is started while another one is
// still driving.
var ErrBusy = errors.New("maneuver in progress")

// execution steps a single maneuver. It is not safe for concurrent use;
// Handle publishes its progress.
type execution struct {
	env   *Env
	m     Maneuver
	start time.Time
	limit time.Duration

	elapsed time.Duration
	result  Result
	done    bool
}

func newExecution(env *Env, m Maneuver) *execution {
	limit := m.Timeout()
	if limit == 0 {
		limit = env.config().Timeout
	}
	return &execution{env: env, m: m, limit: limit}
}

func (x *execution) begin(now time.Time) {
	x.start = now
	x.m.Begin(x.env)
}

// tick runs one control step and reports whether the maneuver finished.
func (x *execution) tick(now time.Time) bool {
	if x.done {
		return true
	}
	x.elapsed = now.Sub(x.start)
	if x.limit > 0 && x.elapsed >= x.limit {
		x.finish(Timeout, nil)
		return true
	}
	reason, err := x.m.Tick(x.env, x.elapsed)
	if err != nil {
		x.finish(Failed, err)
		return true
	}
	if reason != Running {
		x.finish(reason, nil)
		return true
	}
	return false
}

func (x *execution) finish(reason Reason, err error) {
	if x.done {
		return
	}
	x.done = true
	if endErr := x.m.End(x.env, reason); endErr != nil && err == nil {
		err = endErr
	}
	x.result = Result{
		Reason:  reason,
		Elapsed: x.elapsed,
		Pose:    x.env.Pose.Pose(),
		Err:     err,
	}
	if err != nil {
		glog.Errorf("maneuver %T %s after %v: %v", x.m, reason, x.elapsed, err)
	} else {
		glog.V(2).Infof("maneuver %T %s after %v at %v", x.m, reason, x.elapsed, x.result.Pose)
	}
}

func (x *execution) progress() Progress {
	return Progress{Remaining: x.m.Remaining(), Elapsed: x.elapsed, Done: x.done}
}

// Handle tracks a maneuver started by Runner.Start.
type Handle struct {
	ID uuid.UUID

	lock     sync.RWMutex
	progress Progress
	result   Result

	cancel context.CancelFunc
	doneCh chan struct{}
}

// Done is closed when the maneuver ends.
func (h *Handle) Done() <-chan struct{} {
	return h.doneCh
}

// Wait blocks until the maneuver ends.
func (h *Handle) Wait() Result {
	<-h.doneCh
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.result
}

// Progress returns the progress published by the latest tick.
func (h *Handle) Progress() Progress {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.progress
}

// Cancel stops the maneuver at the next tick boundary.
func (h *Handle) Cancel() {
	h.cancel()
}

func (h *Handle) publish(p Progress) {
	h.lock.Lock()
	h.progress = p
	h.lock.Unlock()
}

func (h *Handle) run(ctx context.Context, x *execution) {
	defer close(h.doneCh)
	defer h.cancel()

	env := x.env
	ticker := env.clock().Ticker(env.config().Interval)
	defer ticker.Stop()

	x.begin(env.clock().Now())
	for !x.tick(env.clock().Now()) {
		h.publish(x.progress())
		select {
		case <-ctx.Done():
			x.finish(Canceled, nil)
		case <-ticker.C:
		}
	}
	h.lock.Lock()
	h.progress = x.progress()
	h.result = x.result
	h.lock.Unlock()
}

// Runner runs maneuvers on one drive, one at a time.
type Runner struct {
	Env *Env

	lock   sync.Mutex
	active *Handle
}

// NewRunner creates a Runner.
func NewRunner(env *Env) *Runner {
	env.resolve()
	return &Runner{Env: env}
}

// Start runs m in the background. It fails with ErrBusy while another
// maneuver is active.
func (r *Runner) Start(ctx context.Context, m Maneuver) (*Handle, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.active != nil {
		select {
		case <-r.active.doneCh:
		default:
			return nil, ErrBusy
		}
	}
	r.Env.clock()
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ID:     uuid.New(),
		cancel: cancel,
		doneCh: make(chan struct{}),
	}
	r.active = h
	glog.V(2).Infof("maneuver %s: start %T", h.ID, m)
	go h.run(ctx, newExecution(r.Env, m))
	return h, nil
}

// Run runs m and waits for it to end.
func (r *Runner) Run(ctx context.Context, m Maneuver) (Result, error) {
	h, err := r.Start(ctx, m)
	if err != nil {
		return Result{}, err
	}
	return h.Wait(), nil
}

// Active returns the running maneuver, nil when idle.
func (r *Runner) Active() *Handle {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.active == nil {
		return nil
	}
	select {
	case <-r.active.doneCh:
		return nil
	default:
		return r.active
	}
}

// Cancel cancels the running maneuver if any.
func (r *Runner) Cancel() {
	if h := r.Active(); h != nil {
		h.Cancel()
	}
}
