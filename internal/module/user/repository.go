package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository backed by db.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, pkg.MapDBError(err, "user")
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Save(user).Error, "user")
}

// ListWriters returns every writer with their published article count, most
// prolific first.
func (r *userRepository) ListWriters(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Writer], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err, "user")
	}

	var writers []domain.Writer
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("users.*, COUNT(articles.id) AS published_count").
		Joins("LEFT JOIN articles ON articles.author_id = users.id AND articles.status = ?", domain.StatusPublished).
		Group("users.id").
		Order("published_count DESC, users.id ASC").
		Scopes(pkg.Paginate(req)).
		Scan(&writers).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "user")
	}

	return pkg.NewPageResult(writers, total, req), nil
}
