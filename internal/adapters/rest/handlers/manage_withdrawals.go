package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/withdrawals"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

func (h *Handler) ListWithdrawals(c *gin.Context) {
	filter := withdrawals.Filter{
		Term:   c.Query("term"),
		Status: models.WithdrawalStatus(c.Query("status")),
	}
	items, err := h.app.WithdrawalService.ListWithdrawals(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to list withdrawals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	jsonItems := make([]WithdrawalResp, 0, len(items))
	for _, w := range items {
		jsonItems = append(jsonItems, newWithdrawalResp(w))
	}
	c.JSON(http.StatusOK, jsonItems)
}

type WithdrawalStatusSummaryResp struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type WithdrawalSummaryResp struct {
	Pending  WithdrawalStatusSummaryResp `json:"pending"`
	Approved WithdrawalStatusSummaryResp `json:"approved"`
	Rejected WithdrawalStatusSummaryResp `json:"rejected"`
	Total    int                         `json:"total"`
}

func (h *Handler) ShowWithdrawalSummary(c *gin.Context) {
	summary, err := h.app.WithdrawalService.GetSummary(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to show withdrawal summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, WithdrawalSummaryResp{
		Pending: WithdrawalStatusSummaryResp{
			summary.Pending.Count, encode.DecimalToFloat(summary.Pending.Amount),
		},
		Approved: WithdrawalStatusSummaryResp{
			summary.Approved.Count, encode.DecimalToFloat(summary.Approved.Amount),
		},
		Rejected: WithdrawalStatusSummaryResp{
			summary.Rejected.Count, encode.DecimalToFloat(summary.Rejected.Amount),
		},
		Total: summary.Total(),
	})
}

func (h *Handler) ApproveWithdrawal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}
	w, err := h.app.WithdrawalService.ApproveWithdrawal(c.Request.Context(), id)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("withdrawalID", id).
			Msg("Failed to approve withdrawal")
		switch {
		case errors.Is(err, withdrawals.ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrWithdrawalAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newWithdrawalResp(w)})
}

// RejectWithdrawalReq carries the optional free-text reason
// attached to a rejection
type RejectWithdrawalReq struct {
	Reason string `json:"reason"`
}

func (h *Handler) RejectWithdrawal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}
	var json RejectWithdrawalReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("Unable to validate withdrawal rejection")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	w, err := h.app.WithdrawalService.RejectWithdrawal(c.Request.Context(), id, json.Reason)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("withdrawalID", id).
			Msg("Failed to reject withdrawal")
		switch {
		case errors.Is(err, withdrawals.ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrWithdrawalAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newWithdrawalResp(w)})
}
