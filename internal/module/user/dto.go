package user

// UpdateProfileRequest is the body of PUT /api/v1/profile.
type UpdateProfileRequest struct {
	Name string `json:"name" form:"name" binding:"required,min=1,max=100"`
	Bio  string `json:"bio" form:"bio" binding:"max=500"`
}
