package wallet

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	settings *Settings
}

func NewController(settings *Settings) *Controller {
	return &Controller{settings: settings}
}

// GetConfig returns the connector settings the front-end passes to its wallet library.
func (c *Controller) GetConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.settings)
}

func (c *Controller) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/wallet/config", c.GetConfig)
}
