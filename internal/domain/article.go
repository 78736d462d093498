package domain

import (
	"context"
	"time"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Article is a piece of writing owned by a single author.
type Article struct {
	BaseModel
	AuthorID    uint          `gorm:"index;not null" json:"author_id"`
	Author      *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title       string        `gorm:"size:200;not null" json:"title"`
	Summary     string        `gorm:"size:500" json:"summary"`
	Body        string        `gorm:"type:text;not null" json:"body"`
	Topic       string        `gorm:"size:60;index;not null" json:"topic"`
	Status      ArticleStatus `gorm:"size:20;index;not null" json:"status"`
	PublishedAt *time.Time    `json:"published_at"`
}

// Topic is a topic hub: a topic name and how many published articles carry it.
type Topic struct {
	Name         string `json:"name"`
	ArticleCount int64  `json:"article_count"`
}

// ArticleFilter narrows article listings. Zero values mean "any".
type ArticleFilter struct {
	AuthorID uint
	Topic    string
	Status   ArticleStatus
}

// ArticleInput carries the editable fields of an article.
type ArticleInput struct {
	Title   string
	Summary string
	Body    string
	Topic   string
	Publish bool
}

// ArticleRepository defines the data access interface for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	GetByID(ctx context.Context, id uint) (*Article, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ArticleFilter, req PageRequest) (*PageResult[Article], error)
	Topics(ctx context.Context) ([]Topic, error)
}

// ArticleService defines the business logic interface for articles.
type ArticleService interface {
	GetArticle(ctx context.Context, id uint) (*Article, error)
	GetOwnedArticle(ctx context.Context, authorID, id uint) (*Article, error)
	ListPublished(ctx context.Context, topic string, req PageRequest) (*PageResult[Article], error)
	ListByAuthor(ctx context.Context, authorID uint, status ArticleStatus, req PageRequest) (*PageResult[Article], error)
	CreateArticle(ctx context.Context, authorID uint, in ArticleInput) (*Article, error)
	UpdateArticle(ctx context.Context, authorID, id uint, in ArticleInput) (*Article, error)
	DeleteArticle(ctx context.Context, authorID, id uint) error
	Topics(ctx context.Context) ([]Topic, error)
}
