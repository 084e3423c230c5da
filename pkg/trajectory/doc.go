// Package trajectory converts distance-indexed motion constraints into a
// time-indexed trapezoidal velocity profile.
package trajectory

// The profile is the pointwise minimum of two candidate profiles:
//
//   - forward: the fastest profile reachable from rest at the start,
//     accelerating at each region's maximum acceleration and capped at its
//     maximum velocity;
//   - backward: the same computed from rest at the end with each region's
//     maximum deceleration, re-expressed on the forward distance axis. It
//     is the fastest speed from which the robot can still brake in time.
//
// Both are sequences of breakpoints (distance, velocity, acceleration)
// where velocity between breakpoints follows v² = v₀² + 2aΔs. The two
// sequences are merged by distance and walked together, selecting the
// lower candidate at every breakpoint. Where the candidates cross between
// breakpoints an extra breakpoint is inserted at the crossing, so the
// selection switches exactly there. The result is then integrated into a
// time table queried by MotionAt.
