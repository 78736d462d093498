package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/auth"
)

// UserModule mounts the writer API.
type UserModule struct {
	handler  *UserHandler
	provider *auth.Provider
}

// NewModule creates a UserModule. Panics if h or p is nil.
func NewModule(h *UserHandler, p *auth.Provider) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	if p == nil {
		panic("user.NewModule: provider must not be nil")
	}
	return &UserModule{handler: h, provider: p}
}

// RegisterRoutes registers the writer routes on the API group.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/writers", m.handler.ListWriters)
	api.GET("/writers/:id", m.handler.GetWriter)
	api.PUT("/profile", m.provider.Middleware(), auth.RequireSession(), m.handler.UpdateProfile)
}
