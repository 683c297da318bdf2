package timemath_test

import (
	"math"
	"testing"
	"time"

	"example.com/ntpquery/base/timemath"
)

func TestDuration(t *testing.T) {
	for _, tc := range []struct {
		seconds float64
		want    time.Duration
	}{
		{0, 0},
		{2, 2 * time.Second},
		{0.5, 500 * time.Millisecond},
		{-1.25, -1250 * time.Millisecond},
		{1e12, math.MaxInt64},
		{-1e12, math.MinInt64},
	} {
		got := timemath.Duration(tc.seconds)
		if got != tc.want {
			t.Errorf("Duration(%v) = %v, want %v", tc.seconds, got, tc.want)
		}
	}
}
