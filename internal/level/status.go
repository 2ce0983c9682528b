package level

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the level/team snapshot the platform reports for one user: both
// ladders with their thresholds and stats, the income figures attached to
// them, and the last-claimed timestamps the claim gate derives its state
// from.
type Status struct {
	Character        Ladder
	Digit            Ladder
	CharacterEarned  decimal.Decimal
	DigitEarned      decimal.Decimal
	PotentialIncome  decimal.Decimal
	DailyIncome      decimal.Decimal
	CanClaim         bool
	DailyLastClaimed *time.Time
	LevelLastClaimed *time.Time
}
