package wallet

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Name identifies one of the two wallets every user owns.
type Name string

const (
	// Investment is the balance earmarked for purchasing plans. It cannot
	// be withdrawn directly.
	Investment Name = "investment"
	// Normal is the general-purpose spendable balance.
	Normal Name = "normal"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSameWallet          = errors.New("source and destination wallets are the same")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrPayoutNotConfigured = errors.New("payout address not configured")
	ErrMissingProof        = errors.New("payment proof required")
	ErrUnknownWallet       = errors.New("unknown wallet")
)

// Balances is the client-side snapshot of a user's two wallets. The platform
// is authoritative; this value is only ever replaced wholesale by a
// server-echoed state or reconciled through ApplyTransfer.
type Balances struct {
	Investment decimal.Decimal `json:"investment"`
	Normal     decimal.Decimal `json:"normal"`
}

func (b Balances) Of(name Name) decimal.Decimal {
	if name == Investment {
		return b.Investment
	}
	return b.Normal
}

// Total is the figure shown as "total balance" across the dashboard.
func (b Balances) Total() decimal.Decimal {
	return b.Investment.Add(b.Normal)
}

// ValidTarget reports whether name is one of the two known wallets.
func ValidTarget(name Name) bool {
	return name == Investment || name == Normal
}

// ValidateTransfer applies the client-side rules for an internal transfer.
// It never touches the network; the platform re-checks everything.
func ValidateTransfer(from, to Name, amount decimal.Decimal, balances Balances) error {
	if !ValidTarget(from) || !ValidTarget(to) {
		return ErrUnknownWallet
	}
	if from == to {
		return ErrSameWallet
	}
	if amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(balances.Of(from)) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyTransfer moves amount between the two wallets and returns the new
// snapshot. Callers must have passed ValidateTransfer first. The result is
// only an optimistic reconciliation: when the platform echoes its own
// balances those always win.
func ApplyTransfer(balances Balances, from, to Name, amount decimal.Decimal) Balances {
	out := balances
	switch from {
	case Investment:
		out.Investment = out.Investment.Sub(amount)
	case Normal:
		out.Normal = out.Normal.Sub(amount)
	}
	switch to {
	case Investment:
		out.Investment = out.Investment.Add(amount)
	case Normal:
		out.Normal = out.Normal.Add(amount)
	}
	return out
}

// ValidateWithdrawal checks a withdrawal request against the spendable
// balance and the user's payout setup.
func ValidateWithdrawal(amount, balance decimal.Decimal, payoutConfigured bool) error {
	if amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(balance) {
		return ErrInsufficientFunds
	}
	if !payoutConfigured {
		return ErrPayoutNotConfigured
	}
	return nil
}

// ValidateDeposit checks a deposit request before it is submitted for
// manual review. Deposits require an attached payment proof.
func ValidateDeposit(amount decimal.Decimal, proofAttached bool) error {
	if amount.Sign() <= 0 {
		return ErrNonPositiveAmount
	}
	if !proofAttached {
		return ErrMissingProof
	}
	return nil
}
