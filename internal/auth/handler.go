package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/pkg"
)

// Handler serves the /api/v1/auth endpoints.
type Handler struct {
	svc Service
}

// NewHandler creates a Handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, "writer registered", RegisterResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Logout handles POST /api/v1/auth/logout. The bearer token of the current
// session is revoked.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), CurrentSession(c).Token); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, nil)
}
