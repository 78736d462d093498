package article

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

var allowedSortFields = []string{"id", "title", "created_at", "updated_at", "published_at"}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates an ArticleRepository backed by db.
func NewArticleRepository(db *gorm.DB) domain.ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, a *domain.Article) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Omit("Author").Create(a).Error, "article")
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*domain.Article, error) {
	var a domain.Article
	if err := r.db.WithContext(ctx).Preload("Author").First(&a, id).Error; err != nil {
		return nil, pkg.MapDBError(err, "article")
	}
	return &a, nil
}

func (r *articleRepository) Update(ctx context.Context, a *domain.Article) error {
	return pkg.MapDBError(r.db.WithContext(ctx).Omit("Author").Save(a).Error, "article")
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Article{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error, "article")
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "article not found", nil)
	}
	return nil
}

// List returns one page of articles matching filter, authors preloaded.
func (r *articleRepository) List(ctx context.Context, filter domain.ArticleFilter, req domain.PageRequest) (*domain.PageResult[domain.Article], error) {
	base := applyFilter(r.db.WithContext(ctx).Model(&domain.Article{}), filter).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err, "article")
	}

	var items []domain.Article
	err := base.Preload("Author").
		Scopes(pkg.Sort(req, allowedSortFields), newestFirst, pkg.Paginate(req)).
		Find(&items).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "article")
	}
	return pkg.NewPageResult(items, total, req), nil
}

// Topics aggregates published articles by topic, busiest first.
func (r *articleRepository) Topics(ctx context.Context) ([]domain.Topic, error) {
	var topics []domain.Topic
	err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Select("topic AS name, COUNT(*) AS article_count").
		Where("status = ?", domain.StatusPublished).
		Group("topic").
		Order("article_count DESC, topic ASC").
		Scan(&topics).Error
	if err != nil {
		return nil, pkg.MapDBError(err, "article")
	}
	if topics == nil {
		topics = []domain.Topic{}
	}
	return topics, nil
}

// newestFirst breaks ordering ties so pages are stable.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("id DESC")
}

func applyFilter(db *gorm.DB, f domain.ArticleFilter) *gorm.DB {
	if f.AuthorID != 0 {
		db = db.Where("author_id = ?", f.AuthorID)
	}
	if f.Topic != "" {
		db = db.Where("topic = ?", f.Topic)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}
