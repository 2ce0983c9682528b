// Package claim implements the once-per-calendar-day gate on periodic income
// sources (daily income, level income).
package claim

import (
	"time"

	"investdash/internal/caldate"
)

// Source names a claimable income stream.
type Source string

const (
	SourceDaily Source = "daily_income"
	SourceLevel Source = "level_income"
)

// State describes where a source sits in its claim cycle. The transition out
// of ClaimedToday happens implicitly at the local-midnight boundary: state is
// re-derived on every read, never advanced by a timer.
type State string

const (
	StateNeverClaimed   State = "never_claimed"
	StateClaimedToday   State = "claimed_today"
	StateClaimableAgain State = "claimable_again"
)

// CanClaim reports whether a claim is allowed now. At most one successful
// claim per calendar day per source.
func CanClaim(lastClaimed *time.Time, now time.Time, loc *time.Location) bool {
	if lastClaimed == nil {
		return true
	}
	return caldate.Day(*lastClaimed, loc).Before(caldate.Day(now, loc))
}

// StateOf derives the claim state from the last successful claim timestamp.
func StateOf(lastClaimed *time.Time, now time.Time, loc *time.Location) State {
	if lastClaimed == nil {
		return StateNeverClaimed
	}
	if caldate.SameDay(*lastClaimed, now, loc) {
		return StateClaimedToday
	}
	return StateClaimableAgain
}
