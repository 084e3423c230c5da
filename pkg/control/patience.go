package control

import (
	"math"

	"github.com/golang/glog"
)

// PatienceConfig configures a Patience monitor.
type PatienceConfig struct {
	// Max is the number of consecutive non-improving observations
	// tolerated before exhaustion.
	Max int
	// MinDelta is the smallest change counted as improvement.
	MinDelta float64 `yaml:"min_delta"`
	// Maximize selects whether larger values are improvements.
	Maximize bool
	// Delay is the number of initial observations ignored.
	Delay int
}

// Patience detects a plateau: it counts consecutive observations that
// fail to improve on the best value seen.
type Patience struct {
	Config PatienceConfig

	best    float64
	counter int
	delayed int
}

// NewPatience creates a Patience monitor.
func NewPatience(conf PatienceConfig) *Patience {
	conf.MinDelta = math.Abs(conf.MinDelta)
	p := &Patience{Config: conf}
	p.Reset()
	return p
}

// Reset restarts the warm-up and clears the counter.
func (p *Patience) Reset() {
	p.counter, p.delayed = 0, 0
	if p.Config.Maximize {
		p.best = -1e9
	} else {
		p.best = 1e9
	}
}

// Observe records a value.
func (p *Patience) Observe(value float64) {
	if p.delayed < p.Config.Delay {
		p.delayed++
		return
	}
	delta := value - p.best
	improved := (p.Config.Maximize && delta > p.Config.MinDelta) ||
		(!p.Config.Maximize && delta < -p.Config.MinDelta)
	if improved {
		p.counter = 0
		p.best = value
	} else {
		p.counter++
	}
	if glog.V(4) {
		glog.Infof("patience %d/%d best=%.4f value=%.4f", p.counter, p.Config.Max, p.best, value)
	}
}

// ExhaustNow forces exhaustion.
func (p *Patience) ExhaustNow() {
	p.counter = p.Config.Max
}

// IsExhausted reports whether the budget is used up.
func (p *Patience) IsExhausted() bool {
	return p.counter >= p.Config.Max
}

// Counter returns the current count of non-improving observations.
func (p *Patience) Counter() int {
	return p.counter
}
