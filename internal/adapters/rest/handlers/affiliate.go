package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

type AffiliateStatsResp struct {
	TotalReferrals  int     `json:"total_referrals"`  // nolint: tagliatelle
	ActiveReferrals int     `json:"active_referrals"` // nolint: tagliatelle
	SiteFees        float64 `json:"site_fees"`        // nolint: tagliatelle
	Commission      float64 `json:"commission"`
}

func (h *Handler) ShowAffiliateStats(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	stats, err := h.app.AffiliateService.GetStats(c.Request.Context(), user.ID)
	if err != nil {
		log.Error().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to show affiliate stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, AffiliateStatsResp{
		TotalReferrals:  stats.TotalReferrals,
		ActiveReferrals: stats.ActiveReferrals,
		SiteFees:        encode.DecimalToFloat(stats.SiteFees),
		Commission:      encode.DecimalToFloat(stats.Commission),
	})
}

// ShowAffiliateSummary reports the program-wide affiliate totals
// for the administrative console
func (h *Handler) ShowAffiliateSummary(c *gin.Context) {
	totals, err := h.app.AffiliateService.GetPlatformTotals(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to show affiliate summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, AffiliateStatsResp{
		TotalReferrals:  totals.TotalReferrals,
		ActiveReferrals: totals.ActiveReferrals,
		SiteFees:        encode.DecimalToFloat(totals.SiteFees),
		Commission:      encode.DecimalToFloat(totals.Commission),
	})
}

type ReferralRespItem struct {
	ID             int               `json:"id"`
	ReferredName   string            `json:"referred_name"`   // nolint: tagliatelle
	ReferredStatus models.UserStatus `json:"referred_status"` // nolint: tagliatelle
	TotalReviews   int               `json:"total_reviews"`   // nolint: tagliatelle
	SiteFees       float64           `json:"site_fees"`       // nolint: tagliatelle
	Commission     float64           `json:"commission"`
	CreatedAt      time.Time         `json:"created_at"` // nolint: tagliatelle
}

func (h *Handler) ListUserReferrals(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	referralList, err := h.app.AffiliateService.GetReferralHistory(c.Request.Context(), user.ID)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to fetch referrals for user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(referralList) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	jsonItems := make([]ReferralRespItem, 0, len(referralList))
	for _, r := range referralList {
		jsonItems = append(jsonItems, ReferralRespItem{
			ID:             r.ID,
			ReferredName:   r.Referred.Name,
			ReferredStatus: r.Referred.Status,
			TotalReviews:   r.TotalReviews,
			SiteFees:       encode.DecimalToFloat(r.SiteFees),
			Commission:     encode.DecimalToFloat(r.Commission),
			CreatedAt:      r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, jsonItems)
}
