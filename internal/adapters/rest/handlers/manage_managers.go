package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/managers"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
)

type ManagerReq struct {
	Name        string   `json:"name" binding:"required,notblank"`
	Email       string   `json:"email" binding:"required,email"`
	Department  string   `json:"department" binding:"required,notblank"`
	Permissions []string `json:"permissions"`
}

type ManagerResp struct {
	ID              int                  `json:"id"`
	Name            string               `json:"name"`
	Email           string               `json:"email"`
	Status          models.ManagerStatus `json:"status"`
	Department      string               `json:"department"`
	Permissions     []string             `json:"permissions"`
	ManagedUsers    int                  `json:"managed_users"`    // nolint: tagliatelle
	ApprovedReviews int                  `json:"approved_reviews"` // nolint: tagliatelle
	JoinedAt        time.Time            `json:"joined_at"`        // nolint: tagliatelle
}

func newManagerResp(m models.Manager) ManagerResp {
	return ManagerResp{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Status:          m.Status,
		Department:      m.Department,
		Permissions:     m.Permissions,
		ManagedUsers:    m.ManagedUsers,
		ApprovedReviews: m.ApprovedReviews,
		JoinedAt:        m.JoinedAt,
	}
}

func (h *Handler) AddManager(c *gin.Context) {
	var json ManagerReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("Unable to validate new manager")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	m, err := h.app.StaffService.AddManager(
		c.Request.Context(),
		strings.TrimSpace(json.Name),
		strings.TrimSpace(strings.ToLower(json.Email)),
		strings.TrimSpace(json.Department),
		json.Permissions,
	)
	if err != nil {
		if errors.Is(err, managers.ErrManagerEmailIsOccupied) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to add manager")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newManagerResp(m)})
}

func (h *Handler) SearchManagers(c *gin.Context) {
	items, err := h.app.StaffService.SearchManagers(c.Request.Context(), c.Query("term"))
	if err != nil {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unable to search managers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	jsonItems := make([]ManagerResp, 0, len(items))
	for _, m := range items {
		jsonItems = append(jsonItems, newManagerResp(m))
	}
	c.JSON(http.StatusOK, jsonItems)
}

func (h *Handler) ToggleManagerStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid manager id"})
		return
	}
	m, err := h.app.StaffService.ToggleManagerStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, managers.ErrManagerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Int("managerID", id).Msg("Unable to toggle manager status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": newManagerResp(m)})
}

func (h *Handler) DeleteManager(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid manager id"})
		return
	}
	if err := h.app.StaffService.DeleteManager(c.Request.Context(), id); err != nil {
		if errors.Is(err, managers.ErrManagerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Int("managerID", id).Msg("Unable to delete manager")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
