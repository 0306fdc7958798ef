package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/users"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/withdrawal"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

type WithdrawalReq struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Method        string  `json:"method" binding:"required,paymethod"`
	PaymentDetail string  `json:"payment_detail"` // nolint: tagliatelle
}

type WithdrawalResp struct {
	ID              int                     `json:"id"`
	Amount          float64                 `json:"amount"`
	Method          models.PaymentMethod    `json:"method"`
	PaymentDetail   string                  `json:"payment_detail,omitempty"` // nolint: tagliatelle
	Status          models.WithdrawalStatus `json:"status"`
	SubmittedAt     time.Time               `json:"submitted_at"`               // nolint: tagliatelle
	ProcessedAt     *time.Time              `json:"processed_at,omitempty"`     // nolint: tagliatelle
	RejectionReason string                  `json:"rejection_reason,omitempty"` // nolint: tagliatelle
	UserName        string                  `json:"user_name,omitempty"`        // nolint: tagliatelle
	UserEmail       string                  `json:"user_email,omitempty"`       // nolint: tagliatelle
}

func newWithdrawalResp(w models.Withdrawal) WithdrawalResp {
	return WithdrawalResp{
		ID:              w.ID,
		Amount:          encode.DecimalToFloat(w.Amount),
		Method:          w.Method,
		PaymentDetail:   w.PaymentDetail,
		Status:          w.Status,
		SubmittedAt:     w.SubmittedAt,
		ProcessedAt:     w.ProcessedAt,
		RejectionReason: w.RejectionReason,
		UserName:        w.User.Name,
		UserEmail:       w.User.Email,
	}
}

type WithdrawalEligibilityResp struct {
	Eligible  bool    `json:"eligible"`
	Available float64 `json:"available"`
	Minimum   float64 `json:"minimum"`
	Shortfall float64 `json:"shortfall"`
}

func (h *Handler) CheckWithdrawalEligibility(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	el, err := h.app.WithdrawalService.CheckEligibility(c.Request.Context(), user.ID)
	if err != nil {
		log.Error().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to check withdrawal eligibility")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, WithdrawalEligibilityResp{
		Eligible:  el.Eligible,
		Available: encode.DecimalToFloat(el.Available),
		Minimum:   encode.DecimalToFloat(el.Minimum),
		Shortfall: encode.DecimalToFloat(el.Shortfall),
	})
}

func (h *Handler) RequestWithdrawal(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert

	var json WithdrawalReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to validate withdrawal request")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	w, err := h.app.WithdrawalService.RequestWithdrawal(
		c.Request.Context(),
		user.ID,
		decimal.NewFromFloat(json.Amount),
		models.PaymentMethod(json.Method),
		json.PaymentDetail,
	)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).
			Float64("amount", json.Amount).Str("method", json.Method).Int("userID", user.ID).
			Msg("Failed to request withdrawal")
		switch {
		case errors.Is(err, withdrawal.ErrWithdrawalInvalidAmount),
			errors.Is(err, withdrawal.ErrWithdrawalBelowMinimum),
			errors.Is(err, withdrawal.ErrWithdrawalUnknownMethod),
			errors.Is(err, withdrawal.ErrWithdrawalMissingPaymentDetail):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, users.ErrUserHasInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": newWithdrawalResp(w)})
}

func (h *Handler) ListUserWithdrawals(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	userWithdrawals, err := h.app.WithdrawalService.GetUserWithdrawals(c.Request.Context(), user.ID)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to fetch withdrawals for user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(userWithdrawals) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	jsonItems := make([]WithdrawalResp, 0, len(userWithdrawals))
	for _, w := range userWithdrawals {
		jsonItems = append(jsonItems, newWithdrawalResp(w))
	}
	c.JSON(http.StatusOK, jsonItems)
}
