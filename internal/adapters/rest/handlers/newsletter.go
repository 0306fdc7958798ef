package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SubscribeReq struct {
	Email string `json:"email" binding:"required,email"`
}

// SubscribeNewsletter accepts a newsletter signup from the public site.
// The response is always a success once the address validates:
// delivery to the provider happens in the background
func (h *Handler) SubscribeNewsletter(c *gin.Context) {
	var json SubscribeReq
	if err := c.ShouldBindJSON(&json); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("Unable to validate newsletter signup")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.app.SubscriptionService.Subscribe(c.Request.Context(), json.Email)
	c.JSON(http.StatusAccepted, gin.H{"result": "ok"})
}
