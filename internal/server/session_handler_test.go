package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/config"
	"investdash/internal/wallet"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) GetWallets(ctx context.Context, s auth.Session) (wallet.Balances, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(wallet.Balances), args.Error(1)
}

func sessionRouter(v SessionVerifier) *gin.Engine {
	cfg := &config.Config{JWTSecret: "test-secret", CalendarTimezone: time.UTC}
	r := gin.New()
	r.POST("/auth/session", CreateSession(cfg, v))
	return r
}

func postSession(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth/session", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSession_IssuesVerifiedToken(t *testing.T) {
	v := new(MockVerifier)
	v.On("GetWallets", mock.Anything, auth.Session{UserID: 7, Token: "upstream-tok"}).
		Return(wallet.Balances{}, nil)

	w := postSession(sessionRouter(v), `{"user_id": 7, "platform_token": "upstream-tok"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	claims, err := auth.ValidateSessionToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "upstream-tok", claims.PlatformToken)
	assert.Equal(t, int(auth.SessionTokenTTL.Seconds()), resp.ExpiresIn)
}

func TestCreateSession_RejectsDeadToken(t *testing.T) {
	v := new(MockVerifier)
	v.On("GetWallets", mock.Anything, mock.Anything).
		Return(wallet.Balances{}, &api.TransportError{Op: "/wallets", Err: api.ErrSessionExpired})

	w := postSession(sessionRouter(v), `{"user_id": 7, "platform_token": "stale"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSession_MissingFields(t *testing.T) {
	v := new(MockVerifier)

	w := postSession(sessionRouter(v), `{"user_id": 7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	v.AssertNotCalled(t, "GetWallets", mock.Anything, mock.Anything)
}
