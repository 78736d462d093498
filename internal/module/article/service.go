package article

import (
	"context"
	"strings"
	"time"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

type articleService struct {
	repo domain.ArticleRepository
	now  func() time.Time
}

// NewArticleService creates an ArticleService.
func NewArticleService(repo domain.ArticleRepository) domain.ArticleService {
	return &articleService{repo: repo, now: time.Now}
}

// GetArticle returns a published article. Drafts are reported as not found.
func (s *articleService) GetArticle(ctx context.Context, id uint) (*domain.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.StatusPublished {
		return nil, domain.NewAppError(domain.CodeNotFound, "article not found", nil)
	}
	return a, nil
}

// GetOwnedArticle returns an article in any state if authorID wrote it.
func (s *articleService) GetOwnedArticle(ctx context.Context, authorID, id uint) (*domain.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != authorID {
		return nil, domain.NewAppError(domain.CodeForbidden, "article belongs to another writer", nil)
	}
	return a, nil
}

func (s *articleService) ListPublished(ctx context.Context, topic string, req domain.PageRequest) (*domain.PageResult[domain.Article], error) {
	return s.repo.List(ctx, domain.ArticleFilter{
		Topic:  NormalizeTopic(topic),
		Status: domain.StatusPublished,
	}, req)
}

// ListByAuthor lists an author's articles; an empty status lists all of them.
func (s *articleService) ListByAuthor(ctx context.Context, authorID uint, status domain.ArticleStatus, req domain.PageRequest) (*domain.PageResult[domain.Article], error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewAppError(domain.CodeValidation, "unknown article status", nil)
	}
	return s.repo.List(ctx, domain.ArticleFilter{AuthorID: authorID, Status: status}, req)
}

func (s *articleService) CreateArticle(ctx context.Context, authorID uint, in domain.ArticleInput) (*domain.Article, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	a := &domain.Article{AuthorID: authorID}
	s.apply(a, in)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *articleService) UpdateArticle(ctx context.Context, authorID, id uint, in domain.ArticleInput) (*domain.Article, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	a, err := s.GetOwnedArticle(ctx, authorID, id)
	if err != nil {
		return nil, err
	}
	s.apply(a, in)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, authorID, id uint) error {
	if _, err := s.GetOwnedArticle(ctx, authorID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *articleService) Topics(ctx context.Context) ([]domain.Topic, error) {
	return s.repo.Topics(ctx)
}

// apply copies in onto a. The first publication stamps PublishedAt; moving an
// article back to draft clears it.
func (s *articleService) apply(a *domain.Article, in domain.ArticleInput) {
	a.Title = in.Title
	a.Summary = in.Summary
	a.Body = in.Body
	a.Topic = in.Topic

	if !in.Publish {
		a.Status = domain.StatusDraft
		a.PublishedAt = nil
		return
	}
	a.Status = domain.StatusPublished
	if a.PublishedAt == nil {
		now := s.now()
		a.PublishedAt = &now
	}
}

// NormalizeTopic lower-cases a topic and joins its words with dashes, so
// "Distributed Systems" and "distributed-systems" name the same hub.
func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), "-")
}

// normalizeInput trims the text fields and normalizes the topic, then checks
// the result against ArticleRequest's binding tags. Limits apply to the stored
// values, so a padded topic that fits once normalized is accepted.
func normalizeInput(in domain.ArticleInput) (domain.ArticleInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Summary = strings.TrimSpace(in.Summary)
	in.Body = strings.TrimSpace(in.Body)
	in.Topic = NormalizeTopic(in.Topic)

	req := requestFromInput(in)
	return in, pkg.Validate(&req)
}
