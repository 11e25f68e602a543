// Package normalize turns decorated numeric text into numbers.
// Every parser fails closed: a false second return means the value must be
// left out of any aggregation over that field.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Installs parses bucketed install counts such as "10,000+".
// All non-digit characters are dropped before parsing.
func Installs(s string) (int64, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Count parses a plain numeric field such as rating_count_tot or Reviews.
// NaN and infinities are rejected; they would poison means and comparisons.
func Count(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// InstallsFloat adapts Installs to the float parser shape used by aggregation.
func InstallsFloat(s string) (float64, bool) {
	n, ok := Installs(s)
	return float64(n), ok
}
