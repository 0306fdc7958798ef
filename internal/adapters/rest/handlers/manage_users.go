package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/users"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/pkg/encode"
)

type ManagedUserRespItem struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         models.UserRole   `json:"role"`
	Status       models.UserStatus `json:"status"`
	ReferralCode string            `json:"referral_code"` // nolint: tagliatelle
	Balance      UserBalanceResp   `json:"balance"`
	JoinedAt     time.Time         `json:"joined_at"` // nolint: tagliatelle
}

func newManagedUserResp(u models.User) ManagedUserRespItem {
	return ManagedUserRespItem{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Status:       u.Status,
		ReferralCode: u.ReferralCode,
		Balance: UserBalanceResp{
			encode.DecimalToFloat(u.Balance.Current),
			encode.DecimalToFloat(u.Balance.Held),
			encode.DecimalToFloat(u.Balance.Withdrawn),
		},
		JoinedAt: u.JoinedAt,
	}
}

func (h *Handler) SearchUsers(c *gin.Context) {
	items, err := h.app.UserService.SearchUsers(c.Request.Context(), c.Query("term"))
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to search users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	jsonItems := make([]ManagedUserRespItem, 0, len(items))
	for _, u := range items {
		jsonItems = append(jsonItems, newManagedUserResp(u))
	}
	c.JSON(http.StatusOK, jsonItems)
}

func (h *Handler) ToggleUserStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	u, err := h.app.UserService.ToggleUserStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Int("userID", id).Msg("Unable to toggle user status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newManagedUserResp(u)})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.app.UserService.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Int("userID", id).Msg("Unable to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
