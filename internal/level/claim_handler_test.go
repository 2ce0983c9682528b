package level

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/claim"
	"investdash/internal/inflight"
	"investdash/internal/logger"
)

func init() {
	logger.Init()
	gin.SetMode(gin.TestMode)
}

var now = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

type MockPlatform struct {
	mock.Mock
	claimDelay time.Duration
}

func (m *MockPlatform) GetLevelsStatus(ctx context.Context, s auth.Session) (Status, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(Status), args.Error(1)
}

func (m *MockPlatform) ClaimDailyIncome(ctx context.Context, s auth.Session) (claim.Result, error) {
	if m.claimDelay > 0 {
		time.Sleep(m.claimDelay)
	}
	args := m.Called(ctx, s)
	return args.Get(0).(claim.Result), args.Error(1)
}

func (m *MockPlatform) ClaimLevelIncome(ctx context.Context, s auth.Session) (claim.Result, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(claim.Result), args.Error(1)
}

func claimRouter(p PlatformAPI, fixedNow time.Time) *gin.Engine {
	rdb, _ := redismock.NewClientMock()
	h := NewHandler(p, cache.NewWithClient(rdb, time.Minute), inflight.NewGuard(), time.UTC)
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	withSession := func(c *gin.Context) {
		c.Set("session", auth.Session{UserID: 7, Token: "tok"})
	}
	r.GET("/levels", withSession, h.GetLevels)
	r.POST("/claims/daily", withSession, h.ClaimDaily)
	r.POST("/claims/level", withSession, h.ClaimLevel)
	return r
}

func postClaim(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestClaimDaily_NeverClaimed(t *testing.T) {
	p := new(MockPlatform)
	p.On("GetLevelsStatus", mock.Anything, mock.Anything).
		Return(Status{}, nil)
	p.On("ClaimDailyIncome", mock.Anything, mock.Anything).
		Return(claim.Result{
			Income:      decimal.RequireFromString("2.5"),
			TotalEarned: decimal.RequireFromString("10"),
			LastClaimed: now,
		}, nil)

	r := claimRouter(p, now)
	w := postClaim(r, "/claims/daily")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "claimed_today")
	p.AssertExpectations(t)
}

func TestClaimDaily_AlreadyClaimedToday(t *testing.T) {
	claimed := now.Add(-2 * time.Hour)
	p := new(MockPlatform)
	p.On("GetLevelsStatus", mock.Anything, mock.Anything).
		Return(Status{DailyLastClaimed: &claimed}, nil)

	r := claimRouter(p, now)
	w := postClaim(r, "/claims/daily")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already claimed today")
	p.AssertNotCalled(t, "ClaimDailyIncome", mock.Anything, mock.Anything)
}

func TestClaimLevel_IndependentOfDaily(t *testing.T) {
	claimedDaily := now.Add(-time.Hour)
	p := new(MockPlatform)
	p.On("GetLevelsStatus", mock.Anything, mock.Anything).
		Return(Status{DailyLastClaimed: &claimedDaily}, nil)
	p.On("ClaimLevelIncome", mock.Anything, mock.Anything).
		Return(claim.Result{LastClaimed: now}, nil)

	r := claimRouter(p, now)
	w := postClaim(r, "/claims/level")

	assert.Equal(t, http.StatusOK, w.Code)
	p.AssertExpectations(t)
}

func TestClaimDaily_ServerRejectionVerbatim(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	p := new(MockPlatform)
	p.On("GetLevelsStatus", mock.Anything, mock.Anything).
		Return(Status{DailyLastClaimed: &yesterday}, nil)
	p.On("ClaimDailyIncome", mock.Anything, mock.Anything).
		Return(claim.Result{}, &api.RemoteRejection{
			Message: "daily income already claimed from another device",
		})

	r := claimRouter(p, now)
	w := postClaim(r, "/claims/daily")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "daily income already claimed from another device")
}

func TestClaimDaily_RejectionDropsCachedStatus(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	stale, err := json.Marshal(Status{DailyLastClaimed: &yesterday})
	require.NoError(t, err)

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet("dash:7:levels").SetVal(string(stale))
	rmock.ExpectDel(
		"dash:7:wallets", "dash:7:transactions", "dash:7:investments",
		"dash:7:plans", "dash:7:levels",
	).SetVal(5)

	claimedToday := now.Add(-time.Hour)
	p := new(MockPlatform)
	p.On("GetLevelsStatus", mock.Anything, mock.Anything).
		Return(Status{DailyLastClaimed: &claimedToday}, nil)
	p.On("ClaimDailyIncome", mock.Anything, mock.Anything).
		Return(claim.Result{}, &api.RemoteRejection{Message: "daily income already claimed"})

	h := NewHandler(p, cache.NewWithClient(rdb, time.Minute), inflight.NewGuard(), time.UTC)
	h.now = func() time.Time { return now }
	withSession := func(c *gin.Context) {
		c.Set("session", auth.Session{UserID: 7, Token: "tok"})
	}
	r := gin.New()
	r.GET("/levels", withSession, h.GetLevels)
	r.POST("/claims/daily", withSession, h.ClaimDaily)

	w := postClaim(r, "/claims/daily")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NoError(t, rmock.ExpectationsWereMet())

	// The next read must re-fetch instead of deriving "claimable" from the
	// stale snapshot.
	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/levels", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var view StatusView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "claimed_today", string(view.DailyClaim.State))
}

func TestClaimDaily_DoubleClickGuard(t *testing.T) {
	p := new(MockPlatform)
	p.claimDelay = 50 * time.Millisecond
	p.On("GetLevelsStatus", mock.Anything, mock.Anything).
		Return(Status{}, nil)
	p.On("ClaimDailyIncome", mock.Anything, mock.Anything).
		Return(claim.Result{LastClaimed: now}, nil)

	r := claimRouter(p, now)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = postClaim(r, "/claims/daily").Code
		}(i)
	}
	wg.Wait()

	// One submission proceeds, the duplicate is rejected while in flight.
	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, codes)
	p.AssertNumberOfCalls(t, "ClaimDailyIncome", 1)
}
