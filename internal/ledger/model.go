package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDeposit          Type = "deposit"
	TypeWithdrawal       Type = "withdrawal"
	TypeReferralBonus    Type = "referral_bonus"
	TypeLevelIncome      Type = "level_income"
	TypeDailyIncome      Type = "daily_income"
	TypeCommission       Type = "commission"
	TypeTransferToUser   Type = "transfer_to_user"
	TypeTransferFromUser Type = "transfer_from_user"
)

type TxStatus string

const (
	TxStatusCompleted TxStatus = "completed"
	TxStatusPending   TxStatus = "pending"
	TxStatusFailed    TxStatus = "failed"
)

// Transaction is one row of the user's append-only ledger as reported by the
// platform. Immutable once received.
type Transaction struct {
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Status      TxStatus        `json:"status"`
	WalletName  string          `json:"wallet_name"`
}

// TransactionStats is the sidecar the platform sends next to the transaction
// feed.
type TransactionStats struct {
	TotalCount     int             `json:"total_count"`
	TotalDeposited decimal.Decimal `json:"total_deposited"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
}
