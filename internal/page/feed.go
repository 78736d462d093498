package page

import (
	"context"
	"fmt"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// FeedData is one page of the community feed.
type FeedData struct {
	Topic    string
	Articles []domain.Article
	Total    int64
	Pager    Pager
}

// Feed is the community feed: every published article, newest first,
// optionally narrowed with ?topic=.
type Feed struct {
	Articles domain.ArticleService
}

// Render implements Page.
func (f Feed) Render(ctx context.Context, req Request) (View, error) {
	preq := pkg.ParseQuery(req.Query)
	if req.Query.Get("sort") == "" {
		preq.Sort = "published_at:desc"
	}
	topic := req.Query.Get("topic")

	result, err := f.Articles.ListPublished(ctx, topic, preq)
	if err != nil {
		return View{}, fmt.Errorf("feed: %w", err)
	}
	return View{
		Template: "pages/feed.html",
		Title:    "Explore",
		Data: FeedData{
			Topic:    topic,
			Articles: result.Items,
			Total:    result.Total,
			Pager:    newPager(req.Path, req.Query, result.Page, result.TotalPages),
		},
	}, nil
}
