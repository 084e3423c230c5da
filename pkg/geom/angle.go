package geom

import "math"

// Angles in this package are plain float64 values. Headings carried by Pose
// are polar degrees (counter-clockwise from +X). Field angles, used by
// heading sensors and turn targets, are clockwise from +Y (north).

// ToRadians converts degrees to radians.
func ToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// ToDegrees converts radians to degrees.
func ToDegrees(r float64) float64 {
	return r * 180.0 / math.Pi
}

// ModRange wraps num into [min, min+|mod|).
func ModRange(num, mod, min float64) float64 {
	r := math.Mod(num-min, mod)
	if r < 0 {
		r += math.Abs(mod)
	}
	return r + min
}

// NormalizeDegrees wraps an angle into [-180, 180).
func NormalizeDegrees(d float64) float64 {
	return ModRange(d, 360, -180)
}

// SwapFieldPolar converts a field angle to a polar angle and vice versa.
func SwapFieldPolar(d float64) float64 {
	return 90 - d
}

// Sinc is sin(x)/x, with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if math.Abs(x) < 1e-9 {
		return 1
	}
	return math.Sin(x) / x
}

// Cosm1X is (cos(x)-1)/x, with Cosm1X(0) = 0.
func Cosm1X(x float64) float64 {
	if math.Abs(x) < 1e-9 {
		return 0
	}
	return (math.Cos(x) - 1) / x
}

// RangeMap linearly maps x from [inMin, inMax] to [outMin, outMax].
// A degenerate input range maps to outMin.
func RangeMap(x, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Clamp limits value to [min, max].
func Clamp(value, min, max float64) float64 {
	return math.Min(max, math.Max(min, value))
}

// MaxAbs returns the largest absolute value in values.
func MaxAbs(values ...float64) float64 {
	var m float64
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// ScaleFactor returns the factor that brings every value within |limit|
// while preserving their ratios. It is 1 when nothing exceeds the limit.
func ScaleFactor(limit float64, values ...float64) float64 {
	limit = math.Abs(limit)
	if limit == 0 {
		return 0
	}
	return limit / math.Max(limit, MaxAbs(values...))
}

// WithinRange reports whether |value-target| <= tolerance.
func WithinRange(value, target, tolerance float64) bool {
	return math.Abs(value-target) <= tolerance
}
