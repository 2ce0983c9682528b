package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/wallet"
)

var testSession = auth.Session{UserID: 7, Token: "platform-token"}

func newTestClient(t *testing.T, handler http.HandlerFunc, onExpired ExpiredFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, onExpired)
}

func TestGetWallets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallets", r.URL.Path)
		assert.Equal(t, "Bearer platform-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"success": true,
			"data": {"investment": {"balance": "100.5"}, "normal": {"balance": 50}}
		}`))
	}, nil)

	b, err := c.GetWallets(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, "100.5", b.Investment.String())
	assert.Equal(t, "50", b.Normal.String())
}

func TestRemoteRejection_MessageVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "Insufficient wallet balance for this plan"}`))
	}, nil)

	_, _, err := c.PurchaseInvestment(context.Background(), testSession, "p1", dec("10"))
	var rejection *api.RemoteRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "Insufficient wallet balance for this plan", rejection.Message)
}

func TestSessionExpiry_NotifiesHandler(t *testing.T) {
	var expired []auth.Session
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, func(s auth.Session) {
		expired = append(expired, s)
	})

	_, err := c.GetWallets(context.Background(), testSession)

	assert.True(t, errors.Is(err, api.ErrSessionExpired))
	var transport *api.TransportError
	assert.ErrorAs(t, err, &transport)
	require.Len(t, expired, 1)
	assert.Equal(t, 7, expired[0].UserID)
}

func TestMalformedResponse_IsTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}, nil)

	_, err := c.GetWallets(context.Background(), testSession)

	var transport *api.TransportError
	require.ErrorAs(t, err, &transport)
	assert.False(t, errors.Is(err, api.ErrSessionExpired))
}

func TestConnectionRefused_IsTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", 200*time.Millisecond, nil)

	_, err := c.GetWallets(context.Background(), testSession)

	var transport *api.TransportError
	assert.ErrorAs(t, err, &transport)
}

func TestTransfer_AdoptsEchoedBalances(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wallets/transfer", r.URL.Path)

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"investment"`, string(body["fromWallet"]))
		assert.JSONEq(t, `"normal"`, string(body["toWallet"]))
		assert.JSONEq(t, `"30"`, string(body["amount"]))

		w.Write([]byte(`{
			"success": true,
			"data": {"newBalances": {"investment": {"balance": "70"}, "normal": {"balance": "80"}}}
		}`))
	}, nil)

	b, err := c.Transfer(context.Background(), testSession, wallet.Investment, wallet.Normal, dec("30"))
	require.NoError(t, err)
	assert.Equal(t, "70", b.Investment.String())
	assert.Equal(t, "80", b.Normal.String())
}

func TestClaimDailyIncome(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/claims/daily", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": {"myDailyIncome": "2.5", "totalEarned": "12.5", "lastClaimed": "2024-05-20T12:00:00Z"}
		}`))
	}, nil)

	res, err := c.ClaimDailyIncome(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, "2.5", res.Income.String())
	assert.Equal(t, "12.5", res.TotalEarned.String())
	assert.Equal(t, 2024, res.LastClaimed.Year())
}
