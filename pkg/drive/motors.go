package drive

import "go.uber.org/multierr"

// BrakeMode selects how motors stop.
type BrakeMode int

// Brake modes.
const (
	Coast BrakeMode = iota
	Brake
	Hold
)

func (m BrakeMode) String() string {
	switch m {
	case Coast:
		return "coast"
	case Brake:
		return "brake"
	case Hold:
		return "hold"
	}
	return "unknown"
}

// Motors is the actuator side of a differential drive.
type Motors interface {
	// SetVoltage spins each side at the given voltage.
	SetVoltage(left, right float64) error
	// SetVelocity spins each side at a percent of the rated speed.
	SetVelocity(leftPct, rightPct float64) error
	// Stop stops both sides.
	Stop(BrakeMode) error
}

// Tee mirrors commands to several Motors, e.g. real controllers and a
// simulated plant supplying odometry. All of them are commanded even when
// one fails.
type Tee []Motors

// SetVoltage implements Motors.
func (t Tee) SetVoltage(left, right float64) (err error) {
	for _, m := range t {
		err = multierr.Append(err, m.SetVoltage(left, right))
	}
	return
}

// SetVelocity implements Motors.
func (t Tee) SetVelocity(leftPct, rightPct float64) (err error) {
	for _, m := range t {
		err = multierr.Append(err, m.SetVelocity(leftPct, rightPct))
	}
	return
}

// Stop implements Motors.
func (t Tee) Stop(mode BrakeMode) (err error) {
	for _, m := range t {
		err = multierr.Append(err, m.Stop(mode))
	}
	return
}
