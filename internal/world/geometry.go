package world

import (
	"math"

	"github.com/golang/geo/r1"

	state "github.com/mationai/spe/internal/world/state"
)

// Vec2 aliases the shared state vector type for world helpers.
type Vec2 = state.Vec2

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// DistanceSquared returns the squared distance between two points.
func DistanceSquared(x0, y0, x1, y1 float64) float64 {
	return (y0-y1)*(y0-y1) + (x0-x1)*(x0-x1)
}

// Distance returns the distance between two points.
func Distance(x0, y0, x1, y1 float64) float64 {
	return math.Sqrt(DistanceSquared(x0, y0, x1, y1))
}

// Slope returns (y0-y1)/(x0-x1). Y grows downward, so a vertical line is
// +Inf when the first point is below the second and -Inf otherwise.
func Slope(x0, y0, x1, y1 float64) float64 {
	if x0 != x1 {
		return (y0 - y1) / (x0 - x1)
	}
	if y0 > y1 {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

// Ratio returns the larger argument divided by the smaller one.
func Ratio(a, b float64) float64 {
	return math.Max(a, b) / math.Min(a, b)
}

// SameSign reports whether a and b are both non-negative or both
// non-positive. Zero matches either sign.
func SameSign(a, b float64) bool {
	return (a >= 0 && b >= 0) || (a <= 0 && b <= 0)
}

// IsBetween reports lo <= value <= hi.
func IsBetween(value, lo, hi float64) bool {
	return r1.Interval{Lo: lo, Hi: hi}.Contains(value)
}

// IsBetweenExclusive reports lo < value < hi.
func IsBetweenExclusive(value, lo, hi float64) bool {
	return r1.Interval{Lo: lo, Hi: hi}.InteriorContains(value)
}
