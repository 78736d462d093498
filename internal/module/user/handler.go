package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// UserHandler serves the writer endpoints of the JSON API.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListWriters handles GET /api/v1/writers.
func (h *UserHandler) ListWriters(c *gin.Context) {
	result, err := h.svc.ListWriters(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// GetWriter handles GET /api/v1/writers/:id.
func (h *UserHandler) GetWriter(c *gin.Context) {
	id, err := pkg.ParseID(c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, user)
}

// UpdateProfile handles PUT /api/v1/profile for the signed-in writer.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), auth.CurrentSession(c).UserID, req.Name, req.Bio)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, user)
}
