package ledger

import "github.com/shopspring/decimal"

// FormatAmount renders a monetary amount the way every dashboard figure is
// displayed: at most 3 fractional digits, trailing zeros stripped.
// 12.500 -> "12.5", 12.000 -> "12".
func FormatAmount(d decimal.Decimal) string {
	return d.Round(3).String()
}
