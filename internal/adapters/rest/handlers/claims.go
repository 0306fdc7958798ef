package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/adapters/rest/middleware/auth"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/claims"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/core/products"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/models"
	"github.com/awmprojects/webdesign-bunny-submitted/internal/services/catalog"
)

type ClaimResp struct {
	ID        int                `json:"id"`
	Product   ProductResp        `json:"product"`
	Status    models.ClaimStatus `json:"status"`
	ClaimedAt time.Time          `json:"claimed_at"` // nolint: tagliatelle
	ExpiresAt time.Time          `json:"expires_at"` // nolint: tagliatelle
}

func newClaimResp(claim models.Claim) ClaimResp {
	return ClaimResp{
		ID:        claim.ID,
		Product:   newProductResp(claim.Product),
		Status:    claim.Status,
		ClaimedAt: claim.ClaimedAt,
		ExpiresAt: claim.ExpiresAt,
	}
}

func (h *Handler) ClaimProduct(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	productID, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	claim, err := h.app.CatalogService.ClaimProduct(c.Request.Context(), user.ID, productID)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).
			Int("userID", user.ID).Int("productID", productID).
			Msg("Failed to claim product")
		switch {
		case errors.Is(err, products.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, products.ErrProductOutOfStock),
			errors.Is(err, catalog.ErrClaimProductUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, claims.ErrClaimAlreadyActive),
			errors.Is(err, catalog.ErrClaimAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": newClaimResp(claim)})
}

func (h *Handler) ListUserClaims(c *gin.Context) {
	user := c.MustGet(auth.ContextKey).(models.User) // nolint: forcetypeassert
	userClaims, err := h.app.CatalogService.GetUserClaims(c.Request.Context(), user.ID)
	if err != nil {
		log.Warn().
			Err(err).Str("path", c.FullPath()).Int("userID", user.ID).
			Msg("Unable to fetch claims for user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(userClaims) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	jsonItems := make([]ClaimResp, 0, len(userClaims))
	for _, claim := range userClaims {
		jsonItems = append(jsonItems, newClaimResp(claim))
	}
	c.JSON(http.StatusOK, jsonItems)
}
