package control

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// Defaults of PIDGains.
const (
	DefaultSettleRange  float64 = 5
	DefaultSettleFrames int     = 7
)

// PIDGains configures a PID loop.
type PIDGains struct {
	P, I, D float64
	// SettleRange is the absolute error band considered converged.
	SettleRange float64 `yaml:"settle_range"`
	// SettleFrames is the number of consecutive in-band computations
	// required before the loop reports settled.
	SettleFrames int `yaml:"settle_frames"`
}

// Gains creates PIDGains with the default settle window.
func Gains(p, i, d float64) PIDGains {
	return PIDGains{P: p, I: i, D: d, SettleRange: DefaultSettleRange, SettleFrames: DefaultSettleFrames}
}

// WithSettle returns a copy with the settle window replaced.
func (g PIDGains) WithSettle(errRange float64, frames int) PIDGains {
	g.SettleRange, g.SettleFrames = errRange, frames
	return g
}

// sentinel marking an uninitialized error.
const noError = 2e17

// PID is a feedback loop computing a control value from an error.
// The integral term resets whenever the error crosses zero.
// A PID is not safe for concurrent use.
type PID struct {
	Gains PIDGains

	clock    clock.Clock
	lastTime time.Time

	current    float64
	previous   float64
	cumulative float64
	delta      float64
	settled    int
}

// NewPID creates a PID loop measuring elapsed time with clk.
// A nil clk uses the wall clock.
func NewPID(gains PIDGains, clk clock.Clock) *PID {
	if clk == nil {
		clk = clock.New()
	}
	gains.SettleRange = math.Abs(gains.SettleRange)
	p := &PID{Gains: gains, clock: clk}
	p.Reset()
	return p
}

// Reset clears all error state and restarts the elapsed-time measurement.
func (p *PID) Reset() {
	p.previous, p.current = noError, noError
	p.cumulative, p.delta = 0, 0
	p.settled = 0
	p.lastTime = p.clock.Now()
}

// Compute feeds a new error sample.
func (p *PID) Compute(err float64) {
	if p.previous > noError/2 {
		p.previous = err
	} else {
		p.previous = p.current
	}

	now := p.clock.Now()
	dt := now.Sub(p.lastTime).Seconds()
	p.lastTime = now

	p.current = err
	if (p.current >= 0 && p.previous <= 0) || (p.current <= 0 && p.previous >= 0) {
		p.cumulative = 0
	} else {
		p.cumulative += 0.5 * (p.previous + p.current) * dt
	}
	if dt > 0 {
		p.delta = (p.current - p.previous) / dt
	} else {
		p.delta = 0
	}

	if math.Abs(err) < p.Gains.SettleRange {
		if p.settled <= p.Gains.SettleFrames {
			p.settled++
		}
	} else {
		p.settled = 0
	}
}

// SetIntegral overrides the accumulated integral error.
func (p *PID) SetIntegral(v float64) {
	p.cumulative = v
}

// Error returns the latest error sample, 0 before the first sample.
func (p *PID) Error() float64 {
	if p.current > noError/2 {
		return 0
	}
	return p.current
}

// Integral returns the accumulated integral error.
func (p *PID) Integral() float64 {
	return p.cumulative
}

// Derivative returns the latest error derivative.
func (p *PID) Derivative() float64 {
	return p.delta
}

// Value returns P+I+D.
func (p *PID) Value() float64 {
	return p.ValueOf(true, true, true)
}

// ValueOf sums the selected terms.
func (p *PID) ValueOf(useP, useI, useD bool) float64 {
	var v float64
	if useP {
		v += p.Error() * p.Gains.P
	}
	if useI {
		v += p.cumulative * p.Gains.I
	}
	if useD {
		v += p.delta * p.Gains.D
	}
	return v
}

// IsSettled reports whether the error has stayed in range long enough.
func (p *PID) IsSettled() bool {
	return p.current < noError/2 &&
		math.Abs(p.current) < p.Gains.SettleRange &&
		p.settled >= p.Gains.SettleFrames
}
