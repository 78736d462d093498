// Package page defines the contract between the router shell and the page
// views it mounts, and implements those views.
package page

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/simp-lee/inkwell/internal/auth"
)

// Page renders one view of the site. Pages never write to the response: they
// describe what to render and the shell renders it inside the document.
type Page interface {
	Render(ctx context.Context, req Request) (View, error)
}

// Func adapts a function to Page.
type Func func(ctx context.Context, req Request) (View, error)

// Render calls f.
func (f Func) Render(ctx context.Context, req Request) (View, error) {
	return f(ctx, req)
}

// Params are the path parameters bound by the matched route.
type Params map[string]string

// Get returns the parameter and whether the route bound it.
func (p Params) Get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Request is everything a page may depend on. The session is passed explicitly
// rather than read from ambient state.
type Request struct {
	Path    string
	Params  Params
	Query   url.Values
	Method  string
	Form    url.Values
	Session auth.Session
	// CSRFToken must be echoed by every form the page renders.
	CSRFToken string
}

// IsPost reports whether the request is a form submission.
func (r Request) IsPost() bool {
	return r.Method == http.MethodPost
}

// View describes the page fragment to render.
type View struct {
	// Template is the fragment template name, e.g. "pages/home.html".
	Template string
	Title    string
	Data     any
	// Status defaults to 200.
	Status int
	// Redirect, when set, makes the shell answer 303 See Other instead of rendering.
	Redirect string
	Cookies  []*http.Cookie
}

// StatusCode returns the response status of v.
func (v View) StatusCode() int {
	if v.Status == 0 {
		return http.StatusOK
	}
	return v.Status
}

// NotFoundData is rendered by the NotFound page and by pages that cannot find
// what the path names.
type NotFoundData struct {
	Path string
}

// NotFoundView is the deterministic view for an unknown location.
func NotFoundView(path string) View {
	return View{
		Template: "pages/not_found.html",
		Title:    "Page not found",
		Data:     NotFoundData{Path: path},
		Status:   http.StatusNotFound,
	}
}

// NotFound renders NotFoundView for the requested path.
type NotFound struct{}

// Render implements Page.
func (NotFound) Render(_ context.Context, req Request) (View, error) {
	return NotFoundView(req.Path), nil
}

// signInRedirect sends an anonymous visitor to the Auth page, coming back to
// the current path afterwards.
func signInRedirect(req Request) View {
	return View{Redirect: "/auth?next=" + url.QueryEscape(req.Path)}
}

// Pager links the pages of a listing.
type Pager struct {
	Page       int
	TotalPages int
	BaseURL    string
	Query      url.Values
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// URL returns the link to page n, keeping the other query parameters.
func (p Pager) URL(n int) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.BaseURL + "?" + q.Encode()
}

func newPager(baseURL string, query url.Values, page, totalPages int) Pager {
	q := url.Values{}
	for k, v := range query {
		if k != "page" {
			q[k] = v
		}
	}
	return Pager{Page: page, TotalPages: totalPages, BaseURL: baseURL, Query: q}
}
