package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusWithdrawn Status = "withdrawn"
)

// Plan is a catalog product. Read-only to the user; purchasing one creates
// an Investment.
type Plan struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	InvestmentRequired    decimal.Decimal `json:"investment_required"`
	DailyPercentage       decimal.Decimal `json:"daily_percentage"`
	DurationDays          int             `json:"duration_days"`
	TotalReturnPercentage decimal.Decimal `json:"total_return_percentage"`
}

// Investment is a purchase record. StartDate and EndDate are assigned by the
// platform; the lifecycle below is derived from them and the two flags.
type Investment struct {
	ID           string          `json:"id"`
	PlanID       string          `json:"plan_id"`
	Amount       decimal.Decimal `json:"investment_amount"`
	DailyEarning decimal.Decimal `json:"daily_earning"`
	TotalEarned  decimal.Decimal `json:"total_earned"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	IsCompleted  bool            `json:"is_completed"`
	IsWithdrawn  bool            `json:"is_withdrawn"`
}
