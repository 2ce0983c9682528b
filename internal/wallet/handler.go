package wallet

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/inflight"
	"investdash/internal/metrics"
)

// PlatformAPI is the slice of the platform client this feature uses.
type PlatformAPI interface {
	GetWallets(ctx context.Context, s auth.Session) (Balances, error)
	Transfer(ctx context.Context, s auth.Session, from, to Name, amount decimal.Decimal) (Balances, error)
	CreateDeposit(ctx context.Context, s auth.Session, amount decimal.Decimal, proofRef string) (string, error)
	CreateWithdrawal(ctx context.Context, s auth.Session, amount decimal.Decimal, payoutInfo string) (string, error)
}

type Handler struct {
	platform PlatformAPI
	cache    *cache.Store
	guard    *inflight.Guard
}

func NewHandler(p PlatformAPI, store *cache.Store, guard *inflight.Guard) *Handler {
	return &Handler{platform: p, cache: store, guard: guard}
}

// Amounts are left unvalidated by binding on purpose: the model's
// ValidateTransfer/ValidateDeposit/ValidateWithdrawal produce the canonical
// messages for non-positive amounts.
type TransferRequest struct {
	From   Name            `json:"from" binding:"required"`
	To     Name            `json:"to" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type DepositRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	ProofRef string          `json:"proof_ref"`
}

type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PayoutAddress string          `json:"payout_address"`
}

// getBalances is the cached read-through for the wallet snapshot.
func (h *Handler) getBalances(c *gin.Context, s auth.Session) (Balances, error) {
	var b Balances
	if h.cache.Get(c.Request.Context(), s.UserID, cache.CollectionWallets, &b) {
		return b, nil
	}
	b, err := h.platform.GetWallets(c.Request.Context(), s)
	if err != nil {
		return Balances{}, err
	}
	h.cache.Set(c.Request.Context(), s.UserID, cache.CollectionWallets, b)
	return b, nil
}

// @Summary      Get wallet balances
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} wallet.Balances
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /wallets [get]
func (h *Handler) GetBalances(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	b, err := h.getBalances(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary      Transfer between own wallets
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body wallet.TransferRequest true "Transfer payload"
// @Success      200 {object} wallet.Balances
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /wallets/transfer [post]
func (h *Handler) Transfer(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	balances, err := h.getBalances(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	// Client-detectable rejections never reach the network.
	if err := ValidateTransfer(req.From, req.To, req.Amount, balances); err != nil {
		metrics.RecordTransfer("invalid")
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	key := fmt.Sprintf("%d:transfer", s.UserID)
	if !h.guard.TryAcquire(key) {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "transfer already in progress"})
		return
	}
	defer h.guard.Release(key)

	newBalances, err := h.platform.Transfer(c.Request.Context(), s, req.From, req.To, req.Amount)
	if err != nil {
		metrics.RecordTransfer("failed")
		api.RespondPlatformError(c, err)
		return
	}
	metrics.RecordTransfer("ok")

	// The server's echoed balances are authoritative. Everything else the
	// transfer touched (the transaction feed) is re-fetched on next read.
	h.cache.Purge(c.Request.Context(), s.UserID)
	h.cache.Set(c.Request.Context(), s.UserID, cache.CollectionWallets, newBalances)

	c.JSON(http.StatusOK, newBalances)
}

func (h *Handler) Deposit(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ValidateDeposit(req.Amount, req.ProofRef != ""); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	key := fmt.Sprintf("%d:deposit", s.UserID)
	if !h.guard.TryAcquire(key) {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "deposit already in progress"})
		return
	}
	defer h.guard.Release(key)

	status, err := h.platform.CreateDeposit(c.Request.Context(), s, req.Amount, req.ProofRef)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	h.cache.Purge(c.Request.Context(), s.UserID)

	c.JSON(http.StatusAccepted, gin.H{"status": status})
}

func (h *Handler) Withdraw(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	balances, err := h.getBalances(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	// Withdrawals draw on the spendable wallet only.
	if err := ValidateWithdrawal(req.Amount, balances.Normal, req.PayoutAddress != ""); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	key := fmt.Sprintf("%d:withdraw", s.UserID)
	if !h.guard.TryAcquire(key) {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "withdrawal already in progress"})
		return
	}
	defer h.guard.Release(key)

	status, err := h.platform.CreateWithdrawal(c.Request.Context(), s, req.Amount, req.PayoutAddress)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	h.cache.Purge(c.Request.Context(), s.UserID)

	c.JSON(http.StatusAccepted, gin.H{"status": status})
}
