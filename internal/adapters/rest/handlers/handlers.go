package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/awmprojects/webdesign-bunny-submitted/internal/application"
)

type Handler struct {
	app *application.App
}

func New(app *application.App) *Handler {
	return &Handler{app: app}
}

// pathID parses the numeric id path param,
// reporting whether the value was a valid positive integer
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
