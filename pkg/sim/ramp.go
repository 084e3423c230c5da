package sim

import "math"

// ramp tracks the surface speed of one side of the drivetrain as it
// accelerates towards a desired speed.
type ramp struct {
	speed   float64
	desired float64
	// accel is the magnitude of acceleration, 0 for instant changes.
	accel float64
}

// advance moves the ramp forward by secs and returns the distance covered.
func (r *ramp) advance(secs float64) float64 {
	if secs <= 0 {
		return 0
	}
	if r.accel == 0 || r.speed == r.desired {
		r.speed = r.desired
		return r.speed * secs
	}
	diff := r.desired - r.speed
	accel := math.Copysign(r.accel, diff)
	accelSecs := math.Abs(diff) / r.accel
	if secs < accelSecs {
		dist := secs*r.speed + accel*secs*secs/2
		r.speed += accel * secs
		return dist
	}
	// acceleration completed, cruise for the rest.
	dist := accelSecs*r.speed + accel*accelSecs*accelSecs/2 + r.desired*(secs-accelSecs)
	r.speed = r.desired
	return dist
}
