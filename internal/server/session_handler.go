package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/config"
	"investdash/internal/wallet"
)

// SessionVerifier proves a platform token is live before it gets wrapped in
// a dashboard session. Any cheap authenticated read works; wallets is the
// smallest one.
type SessionVerifier interface {
	GetWallets(ctx context.Context, s auth.Session) (wallet.Balances, error)
}

type CreateSessionRequest struct {
	UserID        int    `json:"user_id" binding:"required"`
	PlatformToken string `json:"platform_token" binding:"required"`
}

type CreateSessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// @Summary      Create a dashboard session
// @Description  Verifies the platform token upstream and returns a session JWT wrapping it
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body server.CreateSessionRequest true "Platform credentials"
// @Success      200 {object} server.CreateSessionResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /auth/session [post]
func CreateSession(cfg *config.Config, verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user_id and platform_token are required"})
			return
		}

		s := auth.Session{UserID: req.UserID, Token: req.PlatformToken}
		if _, err := verifier.GetWallets(c.Request.Context(), s); err != nil {
			api.RespondPlatformError(c, err)
			return
		}

		token, err := auth.GenerateSessionToken(req.UserID, req.PlatformToken, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "could not create session"})
			return
		}

		c.JSON(http.StatusOK, CreateSessionResponse{
			Token:     token,
			ExpiresIn: int(auth.SessionTokenTTL.Seconds()),
		})
	}
}
