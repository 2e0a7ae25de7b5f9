package utils

import (
	"math"
	"strings"
	"time"
)

// Round2 rounds to two decimal places, the precision all reported durations
// carry.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SecondsSince returns the elapsed wall-clock seconds since start, rounded to
// two decimals and never negative.
func SecondsSince(start time.Time) float64 {
	s := time.Since(start).Seconds()
	if s < 0 {
		s = 0
	}
	return Round2(s)
}

// SameServiceName compares service names case-insensitively; names are stable
// identifiers but hosts report them in varying case.
func SameServiceName(a, b string) bool {
	return strings.EqualFold(a, b)
}
