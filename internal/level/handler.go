package level

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"investdash/internal/api"
	"investdash/internal/auth"
	"investdash/internal/claim"
	"investdash/internal/ledger"
)

// LadderView is one evaluated ladder plus the income it has produced.
type LadderView struct {
	Evaluation
	TotalEarned string `json:"total_earned"`
}

// ClaimView is the claim gate's verdict for one income source.
type ClaimView struct {
	State       claim.State `json:"state"`
	LastClaimed *time.Time  `json:"last_claimed,omitempty"`
}

// StatusView is the levels page: both ladders evaluated against their
// thresholds, the combined summary, and the claim state of each income
// source. CanClaim is the platform's own eligibility flag, passed through
// alongside the calendar-derived states so clients can spot disagreement.
type StatusView struct {
	Character       LadderView `json:"character"`
	Digit           LadderView `json:"digit"`
	Summary         Summary    `json:"summary"`
	PotentialIncome string     `json:"potential_income"`
	DailyIncome     string     `json:"daily_income"`
	CanClaim        bool       `json:"can_claim"`
	DailyClaim      ClaimView  `json:"daily_claim"`
	LevelClaim      ClaimView  `json:"level_claim"`
}

// @Summary      Level progress
// @Description  Referral ladder evaluation, next-milestone summary and claim states
// @Tags         levels
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} level.StatusView
// @Failure      401 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /levels [get]
func (h *Handler) GetLevels(c *gin.Context) {
	s, ok := auth.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	ls, err := h.getLevelsStatus(c, s)
	if err != nil {
		api.RespondPlatformError(c, err)
		return
	}

	character := EvaluateLadder(ls.Character)
	digit := EvaluateLadder(ls.Digit)
	now := h.now()

	c.JSON(http.StatusOK, StatusView{
		Character: LadderView{
			Evaluation:  character,
			TotalEarned: ledger.FormatAmount(ls.CharacterEarned),
		},
		Digit: LadderView{
			Evaluation:  digit,
			TotalEarned: ledger.FormatAmount(ls.DigitEarned),
		},
		Summary:         Summarize(character, digit),
		PotentialIncome: ledger.FormatAmount(ls.PotentialIncome),
		DailyIncome:     ledger.FormatAmount(ls.DailyIncome),
		CanClaim:        ls.CanClaim,
		DailyClaim: ClaimView{
			State:       claim.StateOf(ls.DailyLastClaimed, now, h.loc),
			LastClaimed: ls.DailyLastClaimed,
		},
		LevelClaim: ClaimView{
			State:       claim.StateOf(ls.LevelLastClaimed, now, h.loc),
			LastClaimed: ls.LevelLastClaimed,
		},
	})
}
