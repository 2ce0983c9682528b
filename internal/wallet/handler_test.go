package wallet

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/inflight"
	"investdash/internal/logger"
)

func init() {
	logger.Init()
	gin.SetMode(gin.TestMode)
}

type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) GetWallets(ctx context.Context, s auth.Session) (Balances, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(Balances), args.Error(1)
}

func (m *MockPlatform) Transfer(ctx context.Context, s auth.Session, from, to Name, amount decimal.Decimal) (Balances, error) {
	args := m.Called(ctx, s, from, to, amount)
	return args.Get(0).(Balances), args.Error(1)
}

func (m *MockPlatform) CreateDeposit(ctx context.Context, s auth.Session, amount decimal.Decimal, proofRef string) (string, error) {
	args := m.Called(ctx, s, amount, proofRef)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) CreateWithdrawal(ctx context.Context, s auth.Session, amount decimal.Decimal, payoutInfo string) (string, error) {
	args := m.Called(ctx, s, amount, payoutInfo)
	return args.String(0), args.Error(1)
}

func newTestHandler(p PlatformAPI) *Handler {
	// Unconfigured redismock: every lookup misses, writes are dropped. The
	// handlers must work with a cold cache.
	rdb, _ := redismock.NewClientMock()
	return NewHandler(p, cache.NewWithClient(rdb, time.Minute), inflight.NewGuard())
}

func router(h *Handler) *gin.Engine {
	r := gin.New()
	withSession := func(c *gin.Context) {
		c.Set("session", auth.Session{UserID: 7, Token: "tok"})
	}
	r.GET("/wallets", withSession, h.GetBalances)
	r.POST("/wallets/transfer", withSession, h.Transfer)
	r.POST("/wallets/deposit", withSession, h.Deposit)
	r.POST("/wallets/withdraw", withSession, h.Withdraw)
	r.GET("/unauthenticated", h.GetBalances)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGetBalances(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("100"), Normal: dec("50")}, nil)

	r := router(newTestHandler(p))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/wallets", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "investment")
	p.AssertExpectations(t)
}

func TestGetBalances_NoSession(t *testing.T) {
	r := router(newTestHandler(new(MockPlatform)))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/unauthenticated", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransfer_Success(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("100"), Normal: dec("50")}, nil)
	p.On("Transfer", mock.Anything, mock.Anything, Investment, Normal, mock.Anything).
		Return(Balances{Investment: dec("70"), Normal: dec("80")}, nil)

	r := router(newTestHandler(p))
	w := post(r, "/wallets/transfer", `{"from":"investment","to":"normal","amount":30}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "70")
	assert.Contains(t, w.Body.String(), "80")
	p.AssertExpectations(t)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("100"), Normal: dec("50")}, nil)

	r := router(newTestHandler(p))
	w := post(r, "/wallets/transfer", `{"from":"normal","to":"investment","amount":500}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient funds")
	p.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_SameWallet(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("100"), Normal: dec("50")}, nil)

	r := router(newTestHandler(p))
	w := post(r, "/wallets/transfer", `{"from":"normal","to":"normal","amount":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_RemoteRejectionIsVerbatim(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("100"), Normal: dec("50")}, nil)
	p.On("Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(Balances{}, &api.RemoteRejection{Message: "transfers are paused for maintenance"})

	r := router(newTestHandler(p))
	w := post(r, "/wallets/transfer", `{"from":"investment","to":"normal","amount":10}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "transfers are paused for maintenance")
}

func TestDeposit_MissingProof(t *testing.T) {
	p := new(MockPlatform)
	r := router(newTestHandler(p))

	w := post(r, "/wallets/deposit", `{"amount":100}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payment proof required")
	p.AssertNotCalled(t, "CreateDeposit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeposit_Success(t *testing.T) {
	p := new(MockPlatform)
	p.On("CreateDeposit", mock.Anything, mock.Anything, mock.Anything, "proof-123").
		Return("pending", nil)

	r := router(newTestHandler(p))
	w := post(r, "/wallets/deposit", `{"amount":100,"proof_ref":"proof-123"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "pending")
	p.AssertExpectations(t)
}

func TestWithdraw_PayoutNotConfigured(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("100"), Normal: dec("50")}, nil)

	r := router(newTestHandler(p))
	w := post(r, "/wallets/withdraw", `{"amount":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payout address not configured")
}

func TestWithdraw_DrawsOnNormalWalletOnly(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetWallets", mock.Anything, mock.Anything).
		Return(Balances{Investment: dec("1000"), Normal: dec("50")}, nil)

	r := router(newTestHandler(p))
	// Covered by the investment wallet but not by the spendable one.
	w := post(r, "/wallets/withdraw", `{"amount":100,"payout_address":"addr"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient funds")
}
