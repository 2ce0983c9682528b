package investment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/inflight"
	"investdash/internal/metrics"
)

type PlatformAPI interface {
	GetInvestmentPlans(ctx context.Context, s auth.Session) ([]Plan, error)
	GetMyInvestments(ctx context.Context, s auth.Session) ([]Investment, error)
	PurchaseInvestment(ctx context.Context, s auth.Session, planID string, amount decimal.Decimal) (Investment, decimal.Decimal, error)
}

type Handler struct {
	platform PlatformAPI
	cache    *cache.Store
	guard    *inflight.Guard
	now      func() time.Time
}

func NewHandler(p PlatformAPI, store *cache.Store, guard *inflight.Guard) *Handler {
	return &Handler{platform: p, cache: store, guard: guard, now: time.Now}
}

// PlanView is a catalog entry plus the flag that grays out "Invest Now".
type PlanView struct {
	Plan
	AlreadyInvested bool `json:"already_invested"`
}

// InvestmentView materializes the time-derived lifecycle fields next to the
// raw purchase record.
type InvestmentView struct {
	Investment
	Status          Status `json:"status"`
	DaysRemaining   int    `json:"days_remaining"`
	ProgressPercent int    `json:"progress_percent"`
}

type PurchaseRequest struct {
	PlanID string          `json:"plan_id" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) getInvestments(c *gin.Context, s auth.Session) ([]Investment, error) {
	var invs []Investment
	if h.cache.Get(c.Request.Context(), s.UserID, cache.CollectionInvestments, &invs) {
		return invs, nil
	}
	invs, err := h.platform.GetMyInvestments(c.Request.Context(), s)
	if err != nil {
		return nil, err
	}
	h.cache.Set(c.Request.Context(), s.UserID, cache.CollectionInvestments, invs)
	return invs, nil
}

func (h *Handler) getPlans(c *gin.Context, s auth.Session) ([]Plan, error) {
	var plans []Plan
	if h.cache.Get(c.Request.Context(), s.UserID, cache.CollectionPlans, &plans) {
		return plans, nil
	}
	plans, err := h.platform.GetInvestmentPlans(c.Request.Context(), s)
	if err != nil {
		return nil, err
	}
	h.cache.Set(c.Request.Context(), s.UserID, cache.CollectionPlans, plans)
	return plans, nil
}

// @Summary      List investment plans
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} investment.PlanView
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	plans, err := h.getPlans(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}
	investments, err := h.getInvestments(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	views := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, PlanView{
			Plan:            p,
			AlreadyInvested: AlreadyInvested(investments, p.ID),
		})
	}
	c.JSON(http.StatusOK, views)
}

// @Summary      List my investments
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} investment.InvestmentView
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /investments [get]
func (h *Handler) ListMine(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	investments, err := h.getInvestments(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	now := h.now()
	views := make([]InvestmentView, 0, len(investments))
	for _, inv := range investments {
		views = append(views, InvestmentView{
			Investment:      inv,
			Status:          DeriveStatus(now, inv),
			DaysRemaining:   DaysRemaining(now, inv),
			ProgressPercent: ProgressPercent(now, inv),
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) Purchase(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount must be positive"})
		return
	}

	// Client-side duplicate check; the platform re-checks authoritatively.
	investments, err := h.getInvestments(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}
	if AlreadyInvested(investments, req.PlanID) {
		metrics.RecordPurchase("duplicate")
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "plan already purchased"})
		return
	}

	key := fmt.Sprintf("%d:purchase", s.UserID)
	if !h.guard.TryAcquire(key) {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "purchase already in progress"})
		return
	}
	defer h.guard.Release(key)

	inv, remaining, err := h.platform.PurchaseInvestment(c.Request.Context(), s, req.PlanID, req.Amount)
	if err != nil {
		metrics.RecordPurchase("failed")
		api.RespondPlatformError(c, err)
		return
	}
	metrics.RecordPurchase("ok")

	h.cache.Purge(c.Request.Context(), s.UserID)

	c.JSON(http.StatusCreated, gin.H{
		"investment":        inv,
		"remaining_balance": remaining,
	})
}
