// Package portfolio composes wallet, investment and ledger snapshots into
// the headline figures shown across the dashboard.
package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"investdash/internal/investment"
	"investdash/internal/ledger"
	"investdash/internal/wallet"
)

// Summary is the composed read model for the overview page. All figures are
// derived from already-fetched snapshots; a collection that is still loading
// (or failed to load) is passed as nil and treated as empty.
type Summary struct {
	TotalBalance          decimal.Decimal `json:"total_balance"`
	TodayIncome           decimal.Decimal `json:"today_income"`
	TotalIncome           decimal.Decimal `json:"total_income"`
	ActiveInvestmentCount int             `json:"active_investment_count"`
	DailyIncomeRate       decimal.Decimal `json:"daily_income_rate"`
}

// TotalBalance sums the two wallets.
func TotalBalance(balances wallet.Balances) decimal.Decimal {
	return balances.Total()
}

// Summarize builds the overview figures for one moment in time.
func Summarize(
	now time.Time,
	balances wallet.Balances,
	investments []investment.Investment,
	transactions []ledger.Transaction,
	loc *time.Location,
) Summary {
	s := Summary{TotalBalance: balances.Total()}

	s.TodayIncome = ledger.Aggregate(transactions, ledger.WindowToday, now, loc).Total
	s.TotalIncome = ledger.Aggregate(transactions, ledger.WindowAll, now, loc).Total

	for _, inv := range investments {
		if investment.DeriveStatus(now, inv) == investment.StatusActive {
			s.ActiveInvestmentCount++
			s.DailyIncomeRate = s.DailyIncomeRate.Add(inv.DailyEarning)
		}
	}
	return s
}
