package timemath

import (
	"math"
	"time"
)

// Duration converts fractional seconds, saturating at the bounds of
// time.Duration.
func Duration(seconds float64) time.Duration {
	d := seconds * float64(time.Second)
	switch {
	case d >= math.MaxInt64:
		return math.MaxInt64
	case d <= math.MinInt64:
		return math.MinInt64
	default:
		return time.Duration(d)
	}
}
