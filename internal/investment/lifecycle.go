package investment

import (
	"math"
	"strings"
	"time"
)

// DeriveStatus computes the lifecycle state of an investment at a given
// moment. Withdrawn is terminal and takes precedence; completion is either
// time-derived or platform-flagged.
func DeriveStatus(now time.Time, inv Investment) Status {
	if inv.IsWithdrawn {
		return StatusWithdrawn
	}
	if inv.IsCompleted || !now.Before(inv.EndDate) {
		return StatusCompleted
	}
	return StatusActive
}

// DaysRemaining returns the number of full or partial days until the
// investment matures, never negative.
func DaysRemaining(now time.Time, inv Investment) int {
	remaining := inv.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// ProgressPercent returns how far through its term the investment is, as an
// integer 0..100. Records with EndDate at or before StartDate are malformed;
// they are treated as a one-day term that has already elapsed.
func ProgressPercent(now time.Time, inv Investment) int {
	total := inv.EndDate.Sub(inv.StartDate)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(inv.StartDate)
	pct := int(math.Round(float64(elapsed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// AlreadyInvested reports whether the user holds a purchase record for the
// given plan. Comparison is on trimmed string ids: the plan catalog and the
// purchase feed come from different endpoints that do not agree on how ids
// are boxed, so both sides are normalized before comparing.
func AlreadyInvested(investments []Investment, planID string) bool {
	want := NormalizeID(planID)
	if want == "" {
		return false
	}
	for _, inv := range investments {
		if NormalizeID(inv.PlanID) == want {
			return true
		}
	}
	return false
}

// NormalizeID canonicalizes a plan or investment id for comparison.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
