package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

func (h *Handler) ListReviews(c *gin.Context) {
	filter := reviews.Filter{
		Term:   c.Query("term"),
		Status: models.ReviewStatus(c.Query("status")),
	}
	items, err := h.app.ReviewService.ListReviews(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to list reviews")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	jsonItems := make([]ReviewResp, 0, len(items))
	for _, r := range items {
		jsonItems = append(jsonItems, newReviewResp(r))
	}
	c.JSON(http.StatusOK, jsonItems)
}

type ReviewSummaryResp struct {
	Pending        int     `json:"pending"`
	Approved       int     `json:"approved"`
	Rejected       int     `json:"rejected"`
	ApprovedReward float64 `json:"approved_reward"` // nolint: tagliatelle
}

func (h *Handler) ShowReviewSummary(c *gin.Context) {
	summary, err := h.app.ReviewService.GetSummary(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to show review summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ReviewSummaryResp{
		Pending:        summary.Pending,
		Approved:       summary.Approved,
		Rejected:       summary.Rejected,
		ApprovedReward: encode.DecimalToFloat(summary.ApprovedReward),
	})
}

func (h *Handler) ApproveReview(c *gin.Context) {
	moderator := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}
	r, err := h.app.ReviewService.ApproveReview(c.Request.Context(), id, moderator.Email)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("reviewID", id).
			Msg("Failed to approve review")
		switch {
		case errors.Is(err, reviews.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrReviewAlreadyModerated):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newReviewResp(r)})
}

func (h *Handler) RejectReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}
	r, err := h.app.ReviewService.RejectReview(c.Request.Context(), id)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("reviewID", id).
			Msg("Failed to reject review")
		switch {
		case errors.Is(err, reviews.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrReviewAlreadyModerated):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newReviewResp(r)})
}
