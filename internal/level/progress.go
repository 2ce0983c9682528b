package level

import (
	"math"

	"github.com/shopspring/decimal"
)

// Evaluation is the result of walking one ladder against current stats.
// CurrentLevel is empty when even the first tag's thresholds are not met.
type Evaluation struct {
	CurrentLevel Tag  `json:"current_level,omitempty"`
	NextLevel    *Tag `json:"next_level,omitempty"`
	// Achieved counts tags whose thresholds are fully met.
	Achieved int `json:"achieved"`
	// Progress toward NextLevel, 0..100. A level is only "almost reached"
	// when every requirement is simultaneously close, so this is the
	// minimum of the per-requirement ratios, not their average.
	Progress int `json:"progress"`
	// PerRequirementProgress holds the individual capped ratios, keyed
	// members / member_wallet / self_wallet.
	PerRequirementProgress map[string]int `json:"per_requirement_progress,omitempty"`
}

func meets(stats Stats, c Criteria) bool {
	return stats.DirectMembers >= c.DirectMembers &&
		stats.MemberWalletBalance.GreaterThanOrEqual(c.MemberWalletMin) &&
		stats.SelfWalletBalance.GreaterThanOrEqual(c.SelfWalletMin)
}

// ratioPercent returns have/want as a percentage capped at 100. A zero
// threshold is already satisfied.
func ratioPercent(have, want decimal.Decimal) int {
	if want.Sign() <= 0 {
		return 100
	}
	if have.Sign() <= 0 {
		return 0
	}
	pct := have.Div(want).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if pct >= 100 {
		return 100
	}
	return int(math.Floor(pct))
}

// EvaluateLadder finds the highest tag whose thresholds are all met and the
// progress toward the one after it. Thresholds combine with AND: two of
// three requirements at 100% still leaves the tag unreached.
func EvaluateLadder(ladder Ladder) Evaluation {
	ev := Evaluation{}

	for _, tag := range ladder.Order {
		c, ok := ladder.Criteria[tag]
		if !ok || !meets(ladder.Stats, c) {
			break
		}
		ev.CurrentLevel = tag
		ev.Achieved++
	}

	if ev.Achieved >= len(ladder.Order) {
		// Top of the ladder: nothing left to progress toward.
		ev.Progress = 100
		return ev
	}

	next := ladder.Order[ev.Achieved]
	ev.NextLevel = &next

	c := ladder.Criteria[next]
	per := map[string]int{
		"members": ratioPercent(
			decimal.NewFromInt(int64(ladder.Stats.DirectMembers)),
			decimal.NewFromInt(int64(c.DirectMembers)),
		),
		"member_wallet": ratioPercent(ladder.Stats.MemberWalletBalance, c.MemberWalletMin),
		"self_wallet":   ratioPercent(ladder.Stats.SelfWalletBalance, c.SelfWalletMin),
	}
	ev.PerRequirementProgress = per

	ev.Progress = 100
	for _, p := range per {
		if p < ev.Progress {
			ev.Progress = p
		}
	}
	return ev
}

// Summary combines the two ladders into the headline figures.
type Summary struct {
	TotalLevelsAchieved int  `json:"total_levels_achieved"`
	NextMilestone       *Tag `json:"next_milestone,omitempty"`
}

// Summarize counts the tags surpassed across both ladders and proposes the
// nearer unmet tag as the next milestone, taken from whichever ladder is
// further along toward its next level.
func Summarize(character, digit Evaluation) Summary {
	s := Summary{TotalLevelsAchieved: character.Achieved + digit.Achieved}

	switch {
	case character.NextLevel == nil && digit.NextLevel == nil:
		// Both ladders topped out.
	case character.NextLevel == nil:
		s.NextMilestone = digit.NextLevel
	case digit.NextLevel == nil:
		s.NextMilestone = character.NextLevel
	case digit.Progress > character.Progress:
		s.NextMilestone = digit.NextLevel
	default:
		s.NextMilestone = character.NextLevel
	}
	return s
}
