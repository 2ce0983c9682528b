package ledger

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
)

type PlatformAPI interface {
	GetTransactions(ctx context.Context, s auth.Session) ([]Transaction, TransactionStats, error)
}

type Handler struct {
	platform PlatformAPI
	cache    *cache.Store
	loc      *time.Location
	now      func() time.Time
}

func NewHandler(p PlatformAPI, store *cache.Store, loc *time.Location) *Handler {
	return &Handler{platform: p, cache: store, loc: loc, now: time.Now}
}

// IncomeView is the breakdown plus display-formatted totals for the income
// page.
type IncomeView struct {
	Window    Window                     `json:"window"`
	Total     string                     `json:"total"`
	Referral  string                     `json:"referral"`
	Level     string                     `json:"level"`
	Other     string                     `json:"other"`
	Breakdown map[Category][]Transaction `json:"transactions_by_category"`
}

func (h *Handler) getTransactions(c *gin.Context, s auth.Session) ([]Transaction, error) {
	var txs []Transaction
	if h.cache.Get(c.Request.Context(), s.UserID, cache.CollectionTransactions, &txs) {
		return txs, nil
	}
	txs, _, err := h.platform.GetTransactions(c.Request.Context(), s)
	if err != nil {
		return nil, err
	}
	h.cache.Set(c.Request.Context(), s.UserID, cache.CollectionTransactions, txs)
	return txs, nil
}

// @Summary      Income breakdown
// @Description  Earned income aggregated by source for today or all time
// @Tags         income
// @Produce      json
// @Security     BearerAuth
// @Param        window query string false "today or all" default(all)
// @Success      200 {object} ledger.IncomeView
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /income [get]
func (h *Handler) GetIncome(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	window := Window(c.DefaultQuery("window", string(WindowAll)))
	if window != WindowToday && window != WindowAll {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "window must be 'today' or 'all'"})
		return
	}

	txs, err := h.getTransactions(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	b := Aggregate(txs, window, h.now(), h.loc)

	c.JSON(http.StatusOK, IncomeView{
		Window:    window,
		Total:     FormatAmount(b.Total),
		Referral:  FormatAmount(b.Referral),
		Level:     FormatAmount(b.Level),
		Other:     FormatAmount(b.Other),
		Breakdown: b.ByCategory,
	})
}
