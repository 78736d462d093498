package page

import (
	"context"
	"fmt"

	"github.com/simp-lee/inkwell/internal/domain"
)

const homeLatest = 5

// HomeData is the landing page: the latest articles and the topic hubs.
type HomeData struct {
	Latest []domain.Article
	Topics []domain.Topic
}

// Home is the landing page.
type Home struct {
	Articles domain.ArticleService
}

// Render implements Page.
func (h Home) Render(ctx context.Context, _ Request) (View, error) {
	latest, err := h.Articles.ListPublished(ctx, "", domain.PageRequest{
		Page:     1,
		PageSize: homeLatest,
		Sort:     "published_at:desc",
	})
	if err != nil {
		return View{}, fmt.Errorf("home: latest articles: %w", err)
	}
	topics, err := h.Articles.Topics(ctx)
	if err != nil {
		return View{}, fmt.Errorf("home: topics: %w", err)
	}
	return View{
		Template: "pages/home.html",
		Title:    "Inkwell",
		Data:     HomeData{Latest: latest.Items, Topics: topics},
	}, nil
}
