package maneuver

import (
	"context"

	"github.com/golang/geo/r2"
)

// RunWaypoints visits points in order and waits until the last one is
// reached, the run is canceled or a step fails.
func (r *Runner) RunWaypoints(ctx context.Context, points []r2.Point, reverse bool, maxPct float64) (Result, error) {
	return r.Run(ctx, Waypoints(points, reverse, maxPct))
}
