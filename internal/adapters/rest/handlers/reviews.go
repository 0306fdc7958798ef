package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/reviews"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/review"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

type SubmitReviewReq struct {
	ProductID int    `json:"product_id" binding:"required,gt=0"` // nolint: tagliatelle
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Title     string `json:"title" binding:"required,notblank"`
	Body      string `json:"body" binding:"required,notblank"`
}

type ReviewResp struct {
	ID          int                 `json:"id"`
	ProductID   int                 `json:"product_id"`             // nolint: tagliatelle
	ProductName string              `json:"product_name,omitempty"` // nolint: tagliatelle
	UserName    string              `json:"user_name,omitempty"`    // nolint: tagliatelle
	Rating      int                 `json:"rating"`
	Title       string              `json:"title"`
	Body        string              `json:"body"`
	Reward      float64             `json:"reward"`
	Status      models.ReviewStatus `json:"status"`
	SubmittedAt time.Time           `json:"submitted_at"`           // nolint: tagliatelle
	ModeratedAt *time.Time          `json:"moderated_at,omitempty"` // nolint: tagliatelle
}

func newReviewResp(r models.Review) ReviewResp {
	return ReviewResp{
		ID:          r.ID,
		ProductID:   r.Product.ID,
		ProductName: r.Product.Name,
		UserName:    r.User.Name,
		Rating:      r.Rating,
		Title:       r.Title,
		Body:        r.Body,
		Reward:      encode.DecimalToFloat(r.Reward),
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
		ModeratedAt: r.ModeratedAt,
	}
}

func (h *Handler) SubmitReview(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert

	var json SubmitReviewReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to validate review submission")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	r, err := h.app.ReviewService.SubmitReview(
		c.Request.Context(), user.ID, json.ProductID, json.Rating, json.Title, json.Body,
	)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).
			Int("userID", user.ID).Int("productID", json.ProductID).
			Msg("Failed to submit review")
		switch {
		case errors.Is(err, review.ErrReviewNoActiveClaim):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, reviews.ErrReviewAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, review.ErrReviewInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": newReviewResp(r)})
}

func (h *Handler) ListUserReviews(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	userReviews, err := h.app.ReviewService.GetUserReviews(c.Request.Context(), user.ID)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to fetch reviews for user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(userReviews) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	jsonItems := make([]ReviewResp, 0, len(userReviews))
	for _, r := range userReviews {
		jsonItems = append(jsonItems, newReviewResp(r))
	}
	c.JSON(http.StatusOK, jsonItems)
}
