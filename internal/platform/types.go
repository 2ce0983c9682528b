package platform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"investdash/internal/claim"
	"investdash/internal/investment"
	"investdash/internal/ledger"
	"investdash/internal/level"
	"investdash/internal/wallet"
)

// FlexID decodes an id that arrives as a JSON string, a number, or an object
// carrying "_id"/"id". The plans and investments endpoints do not agree on
// the shape, so both are normalized here and compared only as strings.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	case '{':
		var obj struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.MongoID != "" {
			*f = FlexID(obj.MongoID)
		} else {
			*f = FlexID(obj.ID)
		}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported id shape: %s", data)
		}
		*f = FlexID(n.String())
		return nil
	}
}

func (f FlexID) String() string {
	return investment.NormalizeID(string(f))
}

// envelope is the platform's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Raw payloads below mirror the platform's camelCase JSON. They are converted
// to domain types at this boundary and nowhere else.

type rawBalance struct {
	Balance decimal.Decimal `json:"balance"`
}

type rawWallets struct {
	Investment rawBalance `json:"investment"`
	Normal     rawBalance `json:"normal"`
}

func (w rawWallets) toDomain() wallet.Balances {
	return wallet.Balances{
		Investment: w.Investment.Balance,
		Normal:     w.Normal.Balance,
	}
}

type rawTransaction struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Status      string          `json:"status"`
	WalletName  string          `json:"walletName"`
}

func (t rawTransaction) toDomain() ledger.Transaction {
	return ledger.Transaction{
		Type:        ledger.Type(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		Status:      ledger.TxStatus(t.Status),
		WalletName:  t.WalletName,
	}
}

type rawTransactionStats struct {
	TotalCount     int             `json:"totalCount"`
	TotalDeposited decimal.Decimal `json:"totalDeposited"`
	TotalWithdrawn decimal.Decimal `json:"totalWithdrawn"`
}

func (s rawTransactionStats) toDomain() ledger.TransactionStats {
	return ledger.TransactionStats{
		TotalCount:     s.TotalCount,
		TotalDeposited: s.TotalDeposited,
		TotalWithdrawn: s.TotalWithdrawn,
	}
}

type rawTransactionsPage struct {
	Transactions []rawTransaction    `json:"transactions"`
	Stats        rawTransactionStats `json:"stats"`
}

// coalesceID picks the populated one of the "id"/"_id" top-level keys; the
// plans and investments endpoints do not agree on which they send.
func coalesceID(id, mongoID FlexID) FlexID {
	if id != "" {
		return id
	}
	return mongoID
}

type rawPlan struct {
	ID                    FlexID          `json:"id"`
	MongoID               FlexID          `json:"_id"`
	Title                 string          `json:"title"`
	InvestmentRequired    decimal.Decimal `json:"investmentRequired"`
	DailyPercentage       decimal.Decimal `json:"dailyPercentage"`
	DurationDays          int             `json:"durationDays"`
	TotalReturnPercentage decimal.Decimal `json:"totalReturnPercentage"`
}

func (p rawPlan) toDomain() investment.Plan {
	return investment.Plan{
		ID:                    coalesceID(p.ID, p.MongoID).String(),
		Title:                 p.Title,
		InvestmentRequired:    p.InvestmentRequired,
		DailyPercentage:       p.DailyPercentage,
		DurationDays:          p.DurationDays,
		TotalReturnPercentage: p.TotalReturnPercentage,
	}
}

type rawInvestment struct {
	ID               FlexID          `json:"id"`
	MongoID          FlexID          `json:"_id"`
	PlanID           FlexID          `json:"planId"`
	InvestmentAmount decimal.Decimal `json:"investmentAmount"`
	DailyEarning     decimal.Decimal `json:"dailyEarning"`
	TotalEarned      decimal.Decimal `json:"totalEarned"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	IsCompleted      bool            `json:"isCompleted"`
	IsWithdrawn      bool            `json:"isWithdrawn"`
}

func (i rawInvestment) toDomain() investment.Investment {
	return investment.Investment{
		ID:           coalesceID(i.ID, i.MongoID).String(),
		PlanID:       i.PlanID.String(),
		Amount:       i.InvestmentAmount,
		DailyEarning: i.DailyEarning,
		TotalEarned:  i.TotalEarned,
		StartDate:    i.StartDate,
		EndDate:      i.EndDate,
		IsCompleted:  i.IsCompleted,
		IsWithdrawn:  i.IsWithdrawn,
	}
}

type rawCriteria struct {
	DirectMembers   int             `json:"directMembers"`
	MemberWalletMin decimal.Decimal `json:"memberWalletMin"`
	SelfWalletMin   decimal.Decimal `json:"selfWalletMin"`
}

type rawLadderStatus struct {
	Current        string                 `json:"current"`
	TotalEarned    decimal.Decimal        `json:"totalEarned"`
	LastCalculated time.Time              `json:"lastCalculated"`
	Criteria       map[string]rawCriteria `json:"criteria"`
	Stats          rawLadderStats         `json:"stats"`
}

type rawLadderStats struct {
	DirectMembers       int             `json:"directMembers"`
	MemberWalletBalance decimal.Decimal `json:"memberWalletBalance"`
	SelfWalletBalance   decimal.Decimal `json:"selfWalletBalance"`
}

func (s rawLadderStatus) toLadder(order []level.Tag) level.Ladder {
	criteria := make(map[level.Tag]level.Criteria, len(s.Criteria))
	for tag, c := range s.Criteria {
		criteria[level.Tag(tag)] = level.Criteria{
			DirectMembers:   c.DirectMembers,
			MemberWalletMin: c.MemberWalletMin,
			SelfWalletMin:   c.SelfWalletMin,
		}
	}
	return level.Ladder{
		Order:    order,
		Criteria: criteria,
		Stats: level.Stats{
			DirectMembers:       s.Stats.DirectMembers,
			MemberWalletBalance: s.Stats.MemberWalletBalance,
			SelfWalletBalance:   s.Stats.SelfWalletBalance,
		},
	}
}

type rawLevelsStatus struct {
	CharacterLevel   rawLadderStatus `json:"characterLevel"`
	DigitLevel       rawLadderStatus `json:"digitLevel"`
	PotentialIncome  decimal.Decimal `json:"potentialIncome"`
	DailyIncome      decimal.Decimal `json:"dailyIncome"`
	CanClaim         bool            `json:"canClaim"`
	DailyLastClaimed *time.Time      `json:"dailyLastClaimed"`
	LevelLastClaimed *time.Time      `json:"levelLastClaimed"`
}

func (r rawLevelsStatus) toDomain() level.Status {
	return level.Status{
		Character:        r.CharacterLevel.toLadder(level.CharacterOrder),
		Digit:            r.DigitLevel.toLadder(level.DigitOrder),
		CharacterEarned:  r.CharacterLevel.TotalEarned,
		DigitEarned:      r.DigitLevel.TotalEarned,
		PotentialIncome:  r.PotentialIncome,
		DailyIncome:      r.DailyIncome,
		CanClaim:         r.CanClaim,
		DailyLastClaimed: r.DailyLastClaimed,
		LevelLastClaimed: r.LevelLastClaimed,
	}
}

type rawNewBalances struct {
	NewBalances rawWallets `json:"newBalances"`
}

type rawPurchase struct {
	Investment       rawInvestment   `json:"investment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// rawClaimResult covers both claim endpoints: each names the credited amount
// after its own source, so all candidate keys are decoded and the populated
// one wins.
type rawClaimResult struct {
	DailyIncome decimal.Decimal `json:"myDailyIncome"`
	LevelIncome decimal.Decimal `json:"myLevelIncome"`
	Income      decimal.Decimal `json:"income"`
	TotalEarned decimal.Decimal `json:"totalEarned"`
	LastClaimed time.Time       `json:"lastClaimed"`
}

func (r rawClaimResult) toDomain() claim.Result {
	income := r.DailyIncome
	if income.IsZero() {
		income = r.LevelIncome
	}
	if income.IsZero() {
		income = r.Income
	}
	return claim.Result{
		Income:      income,
		TotalEarned: r.TotalEarned,
		LastClaimed: r.LastClaimed,
	}
}

type rawStatus struct {
	Status string `json:"status"`
}
