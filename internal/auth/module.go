package auth

import "github.com/gin-gonic/gin"

// Module mounts the auth API.
type Module struct {
	handler  *Handler
	provider *Provider
}

// NewModule creates a Module. Panics if h or p is nil.
func NewModule(h *Handler, p *Provider) *Module {
	if h == nil || p == nil {
		panic("auth.NewModule: handler and provider must not be nil")
	}
	return &Module{handler: h, provider: p}
}

// RegisterRoutes registers the /auth routes on the API group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/auth")
	g.POST("/login", m.handler.Login)
	g.POST("/register", m.handler.Register)
	g.POST("/logout", m.provider.Middleware(), RequireSession(), m.handler.Logout)
}
