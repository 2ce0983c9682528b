// Package ledger classifies and aggregates the raw transaction log into the
// income breakdowns shown on the dashboard.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"investdash/internal/caldate"
)

// Window selects the aggregation period.
type Window string

const (
	WindowToday Window = "today"
	WindowAll   Window = "all"
)

// Category is an income bucket. Every earned-income transaction lands in
// exactly one.
type Category string

const (
	CategoryReferral Category = "referral"
	CategoryLevel    Category = "level"
	CategoryOther    Category = "other"
)

// IsEarnedIncome reports whether tx counts as income: any positive amount
// that is not a deposit.
func IsEarnedIncome(tx Transaction) bool {
	return tx.Amount.Sign() > 0 && tx.Type != TypeDeposit
}

// IsToday compares calendar dates, not a rolling 24h window.
func IsToday(tx Transaction, now time.Time, loc *time.Location) bool {
	return caldate.SameDay(tx.Date, now, loc)
}

// Classify maps an earned-income transaction to its bucket.
func Classify(tx Transaction) Category {
	switch tx.Type {
	case TypeReferralBonus:
		return CategoryReferral
	case TypeLevelIncome:
		return CategoryLevel
	default:
		return CategoryOther
	}
}

// Breakdown is the aggregate for one window: per-bucket totals plus the
// underlying transactions for the detail view. Bucket slices keep the source
// order of the feed, so a newest-first feed stays newest-first.
type Breakdown struct {
	Total    decimal.Decimal `json:"total"`
	Referral decimal.Decimal `json:"referral"`
	Level    decimal.Decimal `json:"level"`
	Other    decimal.Decimal `json:"other"`

	ByCategory map[Category][]Transaction `json:"transactions_by_category"`
}

// Aggregate filters transactions down to earned income (and, for the today
// window, to the current calendar day) and sums them into buckets.
func Aggregate(transactions []Transaction, window Window, now time.Time, loc *time.Location) Breakdown {
	b := Breakdown{
		ByCategory: map[Category][]Transaction{
			CategoryReferral: {},
			CategoryLevel:    {},
			CategoryOther:    {},
		},
	}

	for _, tx := range transactions {
		if !IsEarnedIncome(tx) {
			continue
		}
		if window == WindowToday && !IsToday(tx, now, loc) {
			continue
		}

		cat := Classify(tx)
		b.ByCategory[cat] = append(b.ByCategory[cat], tx)
		b.Total = b.Total.Add(tx.Amount)
		switch cat {
		case CategoryReferral:
			b.Referral = b.Referral.Add(tx.Amount)
		case CategoryLevel:
			b.Level = b.Level.Add(tx.Amount)
		case CategoryOther:
			b.Other = b.Other.Add(tx.Amount)
		}
	}

	return b
}
