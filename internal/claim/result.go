package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is the platform's answer to a successful income claim.
type Result struct {
	Income      decimal.Decimal
	TotalEarned decimal.Decimal
	LastClaimed time.Time
}
