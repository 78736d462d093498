package article

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// ArticleHandler serves the article and topic endpoints of the JSON API.
type ArticleHandler struct {
	svc domain.ArticleService
}

// NewArticleHandler creates an ArticleHandler.
func NewArticleHandler(svc domain.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// List handles GET /api/v1/articles?topic=&page=&page_size=&sort=.
func (h *ArticleHandler) List(c *gin.Context) {
	result, err := h.svc.ListPublished(c.Request.Context(), c.Query("topic"), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Get handles GET /api/v1/articles/:id.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	a, err := h.svc.GetArticle(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, a)
}

// Create handles POST /api/v1/articles.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	a, err := h.svc.CreateArticle(c.Request.Context(), auth.CurrentSession(c).UserID, req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, "article created", a)
}

// Update handles PUT /api/v1/articles/:id.
func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	var req ArticleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	a, err := h.svc.UpdateArticle(c.Request.Context(), auth.CurrentSession(c).UserID, id, req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, a)
}

// Delete handles DELETE /api/v1/articles/:id.
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if err := h.svc.DeleteArticle(c.Request.Context(), auth.CurrentSession(c).UserID, id); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}

// Topics handles GET /api/v1/topics.
func (h *ArticleHandler) Topics(c *gin.Context) {
	topics, err := h.svc.Topics(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, topics)
}
