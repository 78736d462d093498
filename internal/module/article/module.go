package article

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/auth"
)

// ArticleModule mounts the article and topic API.
type ArticleModule struct {
	handler  *ArticleHandler
	provider *auth.Provider
}

// NewModule creates an ArticleModule. Panics if h or p is nil.
func NewModule(h *ArticleHandler, p *auth.Provider) *ArticleModule {
	if h == nil {
		panic("article.NewModule: handler must not be nil")
	}
	if p == nil {
		panic("article.NewModule: provider must not be nil")
	}
	return &ArticleModule{handler: h, provider: p}
}

// RegisterRoutes registers the article routes on the API group. Writes require
// a session.
func (m *ArticleModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/articles", m.handler.List)
	api.GET("/articles/:id", m.handler.Get)
	api.GET("/topics", m.handler.Topics)

	w := api.Group("/articles", m.provider.Middleware(), auth.RequireSession())
	w.POST("", m.handler.Create)
	w.PUT("/:id", m.handler.Update)
	w.DELETE("/:id", m.handler.Delete)
}
