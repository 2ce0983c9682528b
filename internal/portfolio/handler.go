package portfolio

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/investment"
	"investdash/internal/ledger"
	"investdash/internal/logger"
	"investdash/internal/wallet"
)

type PlatformAPI interface {
	GetWallets(ctx context.Context, s auth.Session) (wallet.Balances, error)
	GetMyInvestments(ctx context.Context, s auth.Session) ([]investment.Investment, error)
	GetTransactions(ctx context.Context, s auth.Session) ([]ledger.Transaction, ledger.TransactionStats, error)
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

// View is the overview payload. Degraded lists the collections that failed
// to load and were summarized as empty, so the frontend can flag partial
// data instead of presenting a silent zero.
type View struct {
	Summary
	InvestmentBalance decimal.Decimal `json:"investment_balance"`
	NormalBalance     decimal.Decimal `json:"normal_balance"`
	Degraded          []string        `json:"degraded,omitempty"`
}

// @Summary      Portfolio overview
// @Description  Composed balances, income and active-investment figures
// @Tags         portfolio
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} portfolio.View
// @Failure      401 {object} api.ErrorResponse
// @Router       /portfolio [get]
func (h *Handler) GetPortfolio(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	ctx := c.Request.Context()

	// The three snapshots are independent reads; fetch them concurrently
	// and degrade any failed one to empty rather than failing the page.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		degraded []string

		balances     wallet.Balances
		investments  []investment.Investment
		transactions []ledger.Transaction
	)

	degrade := func(collection string, err error) {
		logger.WithError(err).Error("portfolio fetch degraded to empty", "collection", collection)
		mu.Lock()
		degraded = append(degraded, collection)
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		b, err := h.getBalances(ctx, s)
		if err != nil {
			degrade(cache.CollectionWallets, err)
			return
		}
		balances = b
	}()
	go func() {
		defer wg.Done()
		invs, err := h.getInvestments(ctx, s)
		if err != nil {
			degrade(cache.CollectionInvestments, err)
			return
		}
		investments = invs
	}()
	go func() {
		defer wg.Done()
		txs, err := h.getTransactions(ctx, s)
		if err != nil {
			degrade(cache.CollectionTransactions, err)
			return
		}
		transactions = txs
	}()
	wg.Wait()

	c.JSON(http.StatusOK, View{
		Summary:           Summarize(h.now(), balances, investments, transactions, h.loc),
		InvestmentBalance: balances.Investment,
		NormalBalance:     balances.Normal,
		Degraded:          degraded,
	})
}

func (h *Handler) getBalances(ctx context.Context, s auth.Session) (wallet.Balances, error) {
	var b wallet.Balances
	if h.cache.Get(ctx, s.UserID, cache.CollectionWallets, &b) {
		return b, nil
	}
	b, err := h.platform.GetWallets(ctx, s)
	if err != nil {
		return wallet.Balances{}, err
	}
	h.cache.Set(ctx, s.UserID, cache.CollectionWallets, b)
	return b, nil
}

func (h *Handler) getInvestments(ctx context.Context, s auth.Session) ([]investment.Investment, error) {
	var invs []investment.Investment
	if h.cache.Get(ctx, s.UserID, cache.CollectionInvestments, &invs) {
		return invs, nil
	}
	invs, err := h.platform.GetMyInvestments(ctx, s)
	if err != nil {
		return nil, err
	}
	h.cache.Set(ctx, s.UserID, cache.CollectionInvestments, invs)
	return invs, nil
}

func (h *Handler) getTransactions(ctx context.Context, s auth.Session) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	if h.cache.Get(ctx, s.UserID, cache.CollectionTransactions, &txs) {
		return txs, nil
	}
	txs, _, err := h.platform.GetTransactions(ctx, s)
	if err != nil {
		return nil, err
	}
	h.cache.Set(ctx, s.UserID, cache.CollectionTransactions, txs)
	return txs, nil
}
