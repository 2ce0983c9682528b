package level

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/claim"
	"investdash/internal/inflight"
	"investdash/internal/metrics"
)

type PlatformAPI interface {
	GetLevelsStatus(ctx context.Context, s auth.Session) (Status, error)
	ClaimDailyIncome(ctx context.Context, s auth.Session) (claim.Result, error)
	ClaimLevelIncome(ctx context.Context, s auth.Session) (claim.Result, error)
}

type Handler struct {
	platform PlatformAPI
	cache    *cache.Store
	guard    *inflight.Guard
	loc      *time.Location
	now      func() time.Time
}

func NewHandler(p PlatformAPI, store *cache.Store, guard *inflight.Guard, loc *time.Location) *Handler {
	return &Handler{platform: p, cache: store, guard: guard, loc: loc, now: time.Now}
}

func (h *Handler) ClaimDaily(c *gin.Context) {
	h.claim(c, claim.SourceDaily, func(ctx context.Context, s auth.Session) (claim.Result, error) {
		return h.platform.ClaimDailyIncome(ctx, s)
	}, func(ls Status) *time.Time {
		return ls.DailyLastClaimed
	})
}

func (h *Handler) ClaimLevel(c *gin.Context) {
	h.claim(c, claim.SourceLevel, func(ctx context.Context, s auth.Session) (claim.Result, error) {
		return h.platform.ClaimLevelIncome(ctx, s)
	}, func(ls Status) *time.Time {
		return ls.LevelLastClaimed
	})
}

type claimFunc func(context.Context, auth.Session) (claim.Result, error)

func (h *Handler) claim(c *gin.Context, source claim.Source, call claimFunc, lastClaimed func(Status) *time.Time) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	// Cheap local precheck; the platform remains the authority and any
	// rejection it returns is surfaced verbatim below.
	ls, err := h.getLevelsStatus(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}
	if !claim.CanClaim(lastClaimed(ls), h.now(), h.loc) {
		metrics.RecordClaim(string(source), "gated")
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "already claimed today"})
		return
	}

	key := fmt.Sprintf("%d:claim:%s", s.UserID, source)
	if !h.guard.TryAcquire(key) {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "claim already in progress"})
		return
	}
	defer h.guard.Release(key)

	result, err := call(c.Request.Context(), s)
	if err != nil {
		metrics.RecordClaim(string(source), "failed")
		// A rejection means the claim landed in another session and the
		// cached snapshot no longer reflects the platform; drop it so the
		// next read re-fetches the authoritative state.
		var rejection *api.RemoteRejection
		if errors.As(err, &rejection) {
			h.cache.Purge(c.Request.Context(), s.UserID)
		}
		api.RespondPlatformError(c, err)
		return
	}
	metrics.RecordClaim(string(source), "ok")

	h.cache.Purge(c.Request.Context(), s.UserID)

	c.JSON(http.StatusOK, gin.H{
		"source":       source,
		"income":       result.Income,
		"total_earned": result.TotalEarned,
		"last_claimed": result.LastClaimed,
		"state":        claim.StateOf(&result.LastClaimed, h.now(), h.loc),
	})
}

func (h *Handler) getLevelsStatus(c *gin.Context, s auth.Session) (Status, error) {
	var ls Status
	if h.cache.Get(c.Request.Context(), s.UserID, cache.CollectionLevels, &ls) {
		return ls, nil
	}
	ls, err := h.platform.GetLevelsStatus(c.Request.Context(), s)
	if err != nil {
		return Status{}, err
	}
	h.cache.Set(c.Request.Context(), s.UserID, cache.CollectionLevels, ls)
	return ls, nil
}
