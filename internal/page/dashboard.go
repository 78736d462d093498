package page

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// Dashboard tabs.
const (
	TabOverview = "overview"
	TabArticles = "articles"
	TabDrafts   = "drafts"
	TabSettings = "settings"
)

// DashboardTabs lists the tabs in display order.
var DashboardTabs = []string{TabOverview, TabArticles, TabDrafts, TabSettings}

// DashboardData backs every dashboard tab. Only the fields of the active tab
// are filled.
type DashboardData struct {
	Tab  string
	Tabs []string

	PublishedCount int64
	DraftCount     int64
	Recent         []domain.Article

	Articles []domain.Article
	Pager    Pager

	Profile *domain.User
	Notice  string
	Error   string

	CSRFToken string
}

// Dashboard is the signed-in writer's workspace. /dashboard shows the overview
// tab and /dashboard/:tab selects another one; an unknown tab is not found.
type Dashboard struct {
	Articles domain.ArticleService
	Users    domain.UserService
}

// Render implements Page.
func (d Dashboard) Render(ctx context.Context, req Request) (View, error) {
	tab, ok := req.Params.Get("tab")
	if !ok {
		tab = TabOverview
	}
	if !isDashboardTab(tab) {
		return NotFoundView(req.Path), nil
	}
	if !req.Session.Authenticated() {
		return signInRedirect(req), nil
	}

	data := DashboardData{Tab: tab, Tabs: DashboardTabs, CSRFToken: req.CSRFToken}
	var err error
	switch tab {
	case TabOverview:
		err = d.overview(ctx, req, &data)
	case TabArticles:
		err = d.list(ctx, req, domain.StatusPublished, &data)
	case TabDrafts:
		err = d.list(ctx, req, domain.StatusDraft, &data)
	case TabSettings:
		err = d.settings(ctx, req, &data)
	}
	if err != nil {
		return View{}, fmt.Errorf("dashboard %s: %w", tab, err)
	}

	return View{Template: "pages/dashboard.html", Title: "Dashboard", Data: data}, nil
}

func (d Dashboard) overview(ctx context.Context, req Request, data *DashboardData) error {
	uid := req.Session.UserID
	published, err := d.Articles.ListByAuthor(ctx, uid, domain.StatusPublished, domain.PageRequest{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	drafts, err := d.Articles.ListByAuthor(ctx, uid, domain.StatusDraft, domain.PageRequest{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	recent, err := d.Articles.ListByAuthor(ctx, uid, "", domain.PageRequest{Page: 1, PageSize: 5, Sort: "updated_at:desc"})
	if err != nil {
		return err
	}
	data.PublishedCount = published.Total
	data.DraftCount = drafts.Total
	data.Recent = recent.Items
	return nil
}

func (d Dashboard) list(ctx context.Context, req Request, status domain.ArticleStatus, data *DashboardData) error {
	preq := pkg.ParseQuery(req.Query)
	if req.Query.Get("sort") == "" {
		preq.Sort = "updated_at:desc"
	}
	result, err := d.Articles.ListByAuthor(ctx, req.Session.UserID, status, preq)
	if err != nil {
		return err
	}
	data.Articles = result.Items
	data.Pager = newPager(req.Path, req.Query, result.Page, result.TotalPages)
	return nil
}

func (d Dashboard) settings(ctx context.Context, req Request, data *DashboardData) error {
	if req.IsPost() {
		user, err := d.Users.UpdateProfile(ctx, req.Session.UserID, req.Form.Get("name"), req.Form.Get("bio"))
		if err == nil {
			data.Profile = user
			data.Notice = "Profile saved."
			return nil
		}
		var appErr *domain.AppError
		if !errors.As(err, &appErr) || appErr.Code != domain.CodeValidation {
			return err
		}
		data.Error = appErr.Message
	}

	user, err := d.Users.GetUser(ctx, req.Session.UserID)
	if err != nil {
		return err
	}
	data.Profile = user
	return nil
}

func isDashboardTab(tab string) bool {
	return slices.Contains(DashboardTabs, tab)
}
