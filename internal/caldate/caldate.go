// Package caldate holds the single calendar-day policy used by income
// classification and claim gating. Every "is this today" decision in the
// service goes through Day with one configured location, so the daily
// boundary is consistent across features.
package caldate

import "time"

// Day truncates t to its calendar date in loc. A nil loc means UTC,
// matching the platform's settlement day.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}
