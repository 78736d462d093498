package page

import (
	"context"
	"fmt"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// TopicsData lists the topic hubs and, when one is selected, its articles.
type TopicsData struct {
	Topics   []domain.Topic
	Selected string
	Articles []domain.Article
	Pager    Pager
}

// Topics is the topic hub index.
type Topics struct {
	Articles domain.ArticleService
}

// Render implements Page.
func (t Topics) Render(ctx context.Context, req Request) (View, error) {
	topics, err := t.Articles.Topics(ctx)
	if err != nil {
		return View{}, fmt.Errorf("topics: %w", err)
	}

	data := TopicsData{Topics: topics}
	title := "Topics"
	if selected := req.Query.Get("topic"); selected != "" {
		preq := pkg.ParseQuery(req.Query)
		preq.Sort = "published_at:desc"
		result, err := t.Articles.ListPublished(ctx, selected, preq)
		if err != nil {
			return View{}, fmt.Errorf("topics: %s: %w", selected, err)
		}
		data.Selected = selected
		data.Articles = result.Items
		data.Pager = newPager(req.Path, req.Query, result.Page, result.TotalPages)
		title = "Topic: " + selected
	}

	return View{Template: "pages/topics.html", Title: title, Data: data}, nil
}
