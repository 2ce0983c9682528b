// Package platform is the typed client for the upstream investment platform
// API. It is the single place where raw JSON becomes domain types and where
// the error taxonomy (validation / remote rejection / transport / session
// expiry) is assigned. The platform stays authoritative for all monetary
// state; nothing here retries a failed request.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/claim"
	"investdash/internal/investment"
	"investdash/internal/ledger"
	"investdash/internal/level"
	"investdash/internal/metrics"
	"investdash/internal/wallet"
)

// ExpiredFunc is notified when the platform rejects a session token. The
// process-wide handler purges the user's cached state.
type ExpiredFunc func(auth.Session)

type Client struct {
	baseURL   string
	http      *http.Client
	onExpired ExpiredFunc
}

func New(baseURL string, timeout time.Duration, onExpired ExpiredFunc) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		onExpired: onExpired,
	}
}

func (c *Client) do(ctx context.Context, s auth.Session, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &api.TransportError{Op: path, Err: err}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &api.TransportError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall(path, "transport_error")
		return &api.TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		metrics.RecordUpstreamCall(path, "session_expired")
		if c.onExpired != nil {
			c.onExpired(s)
		}
		return &api.TransportError{Op: path, Err: api.ErrSessionExpired}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		metrics.RecordUpstreamCall(path, "malformed")
		return &api.TransportError{Op: path, Err: fmt.Errorf("malformed response: %w", err)}
	}

	if !env.Success {
		metrics.RecordUpstreamCall(path, "rejected")
		return &api.RemoteRejection{Message: env.Message}
	}
	metrics.RecordUpstreamCall(path, "ok")

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &api.TransportError{Op: path, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return nil
}

// GetWallets fetches the user's two balances.
func (c *Client) GetWallets(ctx context.Context, s auth.Session) (wallet.Balances, error) {
	var raw rawWallets
	if err := c.do(ctx, s, http.MethodGet, "/wallets", nil, &raw); err != nil {
		return wallet.Balances{}, err
	}
	return raw.toDomain(), nil
}

// GetTransactions fetches the user's ledger, newest first, plus the
// platform's sidecar stats.
func (c *Client) GetTransactions(ctx context.Context, s auth.Session) ([]ledger.Transaction, ledger.TransactionStats, error) {
	var raw rawTransactionsPage
	if err := c.do(ctx, s, http.MethodGet, "/transactions", nil, &raw); err != nil {
		return nil, ledger.TransactionStats{}, err
	}
	txs := make([]ledger.Transaction, 0, len(raw.Transactions))
	for _, t := range raw.Transactions {
		txs = append(txs, t.toDomain())
	}
	return txs, raw.Stats.toDomain(), nil
}

// GetInvestmentPlans fetches the plan catalog.
func (c *Client) GetInvestmentPlans(ctx context.Context, s auth.Session) ([]investment.Plan, error) {
	var raw []rawPlan
	if err := c.do(ctx, s, http.MethodGet, "/investment-plans", nil, &raw); err != nil {
		return nil, err
	}
	plans := make([]investment.Plan, 0, len(raw))
	for _, p := range raw {
		plans = append(plans, p.toDomain())
	}
	return plans, nil
}

// GetMyInvestments fetches the user's purchase records.
func (c *Client) GetMyInvestments(ctx context.Context, s auth.Session) ([]investment.Investment, error) {
	var raw []rawInvestment
	if err := c.do(ctx, s, http.MethodGet, "/investments", nil, &raw); err != nil {
		return nil, err
	}
	invs := make([]investment.Investment, 0, len(raw))
	for _, i := range raw {
		invs = append(invs, i.toDomain())
	}
	return invs, nil
}

// GetLevelsStatus fetches the referral ladder snapshot.
func (c *Client) GetLevelsStatus(ctx context.Context, s auth.Session) (level.Status, error) {
	var raw rawLevelsStatus
	if err := c.do(ctx, s, http.MethodGet, "/levels/status", nil, &raw); err != nil {
		return level.Status{}, err
	}
	return raw.toDomain(), nil
}

// Transfer moves amount between the user's wallets and returns the
// platform's authoritative balances, which always win over any locally
// computed value.
func (c *Client) Transfer(ctx context.Context, s auth.Session, from, to wallet.Name, amount decimal.Decimal) (wallet.Balances, error) {
	body := map[string]interface{}{
		"fromWallet": from,
		"toWallet":   to,
		"amount":     amount,
	}
	var raw rawNewBalances
	if err := c.do(ctx, s, http.MethodPost, "/wallets/transfer", body, &raw); err != nil {
		return wallet.Balances{}, err
	}
	return raw.NewBalances.toDomain(), nil
}

// PurchaseInvestment buys a plan. The platform assigns start and end dates.
func (c *Client) PurchaseInvestment(ctx context.Context, s auth.Session, planID string, amount decimal.Decimal) (investment.Investment, decimal.Decimal, error) {
	body := map[string]interface{}{
		"planId": planID,
		"amount": amount,
	}
	var raw rawPurchase
	if err := c.do(ctx, s, http.MethodPost, "/investments", body, &raw); err != nil {
		return investment.Investment{}, decimal.Decimal{}, err
	}
	return raw.Investment.toDomain(), raw.RemainingBalance, nil
}

// ClaimDailyIncome claims today's daily income. A rejection (already
// claimed, race with another session) comes back as *RemoteRejection with
// the server's wording intact.
func (c *Client) ClaimDailyIncome(ctx context.Context, s auth.Session) (claim.Result, error) {
	var raw rawClaimResult
	if err := c.do(ctx, s, http.MethodPost, "/claims/daily", nil, &raw); err != nil {
		return claim.Result{}, err
	}
	return raw.toDomain(), nil
}

// ClaimLevelIncome claims today's level income.
func (c *Client) ClaimLevelIncome(ctx context.Context, s auth.Session) (claim.Result, error) {
	var raw rawClaimResult
	if err := c.do(ctx, s, http.MethodPost, "/claims/level", nil, &raw); err != nil {
		return claim.Result{}, err
	}
	return raw.toDomain(), nil
}

// CreateDeposit submits a deposit request with its payment proof reference.
func (c *Client) CreateDeposit(ctx context.Context, s auth.Session, amount decimal.Decimal, proofRef string) (string, error) {
	body := map[string]interface{}{
		"amount":   amount,
		"proofRef": proofRef,
	}
	var raw rawStatus
	if err := c.do(ctx, s, http.MethodPost, "/deposits", body, &raw); err != nil {
		return "", err
	}
	return raw.Status, nil
}

// CreateWithdrawal submits a withdrawal of the spendable wallet.
func (c *Client) CreateWithdrawal(ctx context.Context, s auth.Session, amount decimal.Decimal, payoutInfo string) (string, error) {
	body := map[string]interface{}{
		"amount":     amount,
		"payoutInfo": payoutInfo,
	}
	var raw rawStatus
	if err := c.do(ctx, s, http.MethodPost, "/withdrawals", body, &raw); err != nil {
		return "", err
	}
	return raw.Status, nil
}
