package app

import "github.com/gin-gonic/gin"

// Module is a business module exposing its JSON API under /api/v1. Pages are
// mounted by the shell instead.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}
