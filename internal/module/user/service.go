package user

import (
	"context"
	"strings"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a UserService.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the display name and bio of a writer.
func (s *userService) UpdateProfile(ctx context.Context, id uint, name, bio string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	bio = strings.TrimSpace(bio)
	if err := validateProfile(name, bio); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Bio = bio
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListWriters(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Writer], error) {
	return s.repo.ListWriters(ctx, req)
}

// validateProfile applies UpdateProfileRequest's binding tags to trimmed
// values, so the settings form and PUT /profile enforce the same rules.
func validateProfile(name, bio string) error {
	return pkg.Validate(&UpdateProfileRequest{Name: name, Bio: bio})
}
