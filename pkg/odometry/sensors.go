package odometry

// RevolutionSource reports the accumulated revolutions of an encoder.
type RevolutionSource interface {
	Revolutions() float64
}

// RevolutionFunc is the func form of RevolutionSource.
type RevolutionFunc func() float64

// Revolutions implements RevolutionSource.
func (f RevolutionFunc) Revolutions() float64 {
	return f()
}

// HeadingSensor is a rotation sensor reporting degrees, clockwise positive.
// The reading is unbounded (it does not wrap at 360).
type HeadingSensor interface {
	Rotation() float64
	SetRotation(degrees float64)
}
