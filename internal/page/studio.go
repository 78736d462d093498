package page

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// StudioData backs the article editor.
type StudioData struct {
	// ID is zero in new-article mode.
	ID        uint
	Input     domain.ArticleInput
	Status    domain.ArticleStatus
	Error     string
	CSRFToken string
}

// Studio is the article editor. /write starts a new article, /write/:id edits
// one of the session writer's articles. POST saves and returns to the
// dashboard.
type Studio struct {
	Articles domain.ArticleService
}

// Render implements Page.
func (s Studio) Render(ctx context.Context, req Request) (View, error) {
	if !req.Session.Authenticated() {
		return signInRedirect(req), nil
	}

	var existing *domain.Article
	if raw, ok := req.Params.Get("id"); ok {
		id, err := pkg.ParseID(raw)
		if err != nil {
			return NotFoundView(req.Path), nil
		}
		existing, err = s.Articles.GetOwnedArticle(ctx, req.Session.UserID, id)
		switch {
		case domain.IsNotFound(err):
			return NotFoundView(req.Path), nil
		case domain.IsForbidden(err):
			return forbiddenView(), nil
		case err != nil:
			return View{}, fmt.Errorf("studio: load article %d: %w", id, err)
		}
	}

	if req.IsPost() {
		return s.save(ctx, req, existing)
	}

	data := StudioData{CSRFToken: req.CSRFToken}
	if existing != nil {
		data = StudioData{
			ID:        existing.ID,
			Status:    existing.Status,
			CSRFToken: req.CSRFToken,
			Input: domain.ArticleInput{
				Title:   existing.Title,
				Summary: existing.Summary,
				Body:    existing.Body,
				Topic:   existing.Topic,
				Publish: existing.Status == domain.StatusPublished,
			},
		}
	}
	return studioView(data), nil
}

func (s Studio) save(ctx context.Context, req Request, existing *domain.Article) (View, error) {
	in := domain.ArticleInput{
		Title:   req.Form.Get("title"),
		Summary: req.Form.Get("summary"),
		Body:    req.Form.Get("body"),
		Topic:   req.Form.Get("topic"),
		Publish: req.Form.Get("action") == "publish",
	}

	var err error
	if existing == nil {
		_, err = s.Articles.CreateArticle(ctx, req.Session.UserID, in)
	} else {
		_, err = s.Articles.UpdateArticle(ctx, req.Session.UserID, existing.ID, in)
	}
	if err == nil {
		return View{Redirect: "/dashboard/articles"}, nil
	}

	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code != domain.CodeValidation {
		return View{}, fmt.Errorf("studio: save: %w", err)
	}

	data := StudioData{Input: in, Error: appErr.Message, CSRFToken: req.CSRFToken}
	if existing != nil {
		data.ID = existing.ID
		data.Status = existing.Status
	}
	// Re-rendered with 200 so htmx swaps the form back in.
	return studioView(data), nil
}

func studioView(data StudioData) View {
	title := "New article"
	if data.ID != 0 {
		title = "Edit: " + data.Input.Title
	}
	return View{Template: "pages/studio.html", Title: title, Data: data}
}

func forbiddenView() View {
	return View{
		Template: "pages/forbidden.html",
		Title:    "Not yours to edit",
		Status:   http.StatusForbidden,
	}
}
