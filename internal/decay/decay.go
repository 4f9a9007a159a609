// Package decay models relationship strength eroding over time.
//
// strength(t) = originalStrength * 0.95^monthsSinceInteraction
//
// The math here is pure; the write-back pass that applies it to every edge
// lives in the engine and runs once per graph load (plus a daily timer),
// never on individual queries.
package decay

import (
	"math"
	"time"
)

// Monthly retention factor: a neglected relationship keeps 95% of its
// strength per month.
const factor = 0.95

// Edges with no recorded interaction are treated as 12 months stale.
const defaultStaleMonths = 12

// MonthsBetween returns the calendar-aware month difference between two
// dates, with a fractional day adjustment of (day delta)/30. Negative when
// d2 is before d1.
func MonthsBetween(d1, d2 time.Time) float64 {
	years := d2.Year() - d1.Year()
	months := int(d2.Month()) - int(d1.Month())
	days := d2.Day() - d1.Day()
	return float64(years*12+months) + float64(days)/30
}

// Strength returns the decayed strength for an edge.
//
// With no interaction date the full default decay is applied, floored at 1.
// Otherwise strength decays by 0.95 per elapsed month, rounded to one
// decimal place and clamped to [1, 10]. Zero or negative elapsed time means
// no decay.
func Strength(original float64, lastInteraction *time.Time, reference time.Time) float64 {
	if lastInteraction == nil {
		return math.Max(1, original*math.Pow(factor, defaultStaleMonths))
	}

	monthsSince := MonthsBetween(*lastInteraction, reference)
	if monthsSince <= 0 {
		return original
	}

	decayed := original * math.Pow(factor, monthsSince)
	decayed = math.Round(decayed*10) / 10
	return math.Max(1, math.Min(10, decayed))
}
