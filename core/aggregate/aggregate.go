// Package aggregate derives view-ready aggregates from entity collections:
// rankings, risk distributions, time-bucketed series, department rollups and
// organization-level scores.
//
// Every function is pure. Inputs are never mutated (slices are copied before
// sorting) and empty collections produce zero-valued aggregates rather than
// errors, so a dashboard always has something to render.
package aggregate

import (
	"errors"
	"math"
)

// ErrEmptyInput accompanies a neutral result when an aggregate is computed
// over an empty collection. The result is always usable; callers treat the
// error as informational.
var ErrEmptyInput = errors.New("aggregate: empty input")

// round1 rounds v to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent returns part/whole as a percentage rounded to one decimal, or 0
// when whole is 0.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round1(100 * float64(part) / float64(whole))
}
