package shell

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/middleware"
	"github.com/simp-lee/inkwell/internal/page"
)

// DocumentTemplate is the template that renders the whole document around the
// page fragment.
const DocumentTemplate = "shell.html"

// BoundaryTemplate is the fragment shown in the outlet when a page fails.
const BoundaryTemplate = "fragments/boundary.html"

const lastResortFallback template.HTML = `<section class="boundary"><h1>Something went wrong</h1><p>This page could not be displayed.</p></section>`

// SessionResolver resolves the session of a request. A request without a
// valid session resolves to the anonymous session.
type SessionResolver interface {
	Resolve(r *http.Request) auth.Session
}

// Renderer renders a named template fragment to HTML.
type Renderer interface {
	Fragment(name string, data any) (template.HTML, error)
}

// Document is the data of DocumentTemplate.
type Document struct {
	Title       string
	Header      HeaderView
	Body        template.HTML
	ResetScroll bool
	CSRFToken   string
	RequestID   string
}

// BoundaryData is the data of BoundaryTemplate.
type BoundaryData struct {
	Path      string
	RequestID string
}

// Config holds the collaborators of a Shell.
type Config struct {
	Table    *Table
	Sessions SessionResolver
	Renderer Renderer
	Header   *Header
	// Effects run once per rendered navigation. Defaults to ScrollReset.
	Effects []Effect
	Logger  *slog.Logger
}

// Shell renders the document for every navigation.
type Shell struct {
	table    *Table
	sessions SessionResolver
	renderer Renderer
	header   *Header
	effects  []Effect
	boundary Boundary
	logger   *slog.Logger
}

// New creates a Shell.
func New(cfg Config) (*Shell, error) {
	if cfg.Table == nil {
		return nil, errors.New("shell: route table is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("shell: session resolver is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("shell: renderer is required")
	}
	if cfg.Header == nil {
		cfg.Header = NewHeader()
	}
	if cfg.Effects == nil {
		cfg.Effects = []Effect{ScrollReset{}}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Shell{
		table:    cfg.Table,
		sessions: cfg.Sessions,
		renderer: cfg.Renderer,
		header:   cfg.Header,
		effects:  cfg.Effects,
		logger:   cfg.Logger,
	}, nil
}

// Mount registers GET and POST for every pattern of the table on r, each
// running mw before Serve. Paths no pattern names are left to the engine's
// NoRoute, which should end in Serve as well.
func (s *Shell) Mount(r gin.IRoutes, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), s.Serve)
	for _, route := range s.table.Routes() {
		if route.Pattern == Wildcard {
			continue
		}
		r.GET(route.Pattern, handlers...)
		r.POST(route.Pattern, handlers...)
	}
}

// Serve renders the document for the current request path.
func (s *Shell) Serve(c *gin.Context) {
	ctx := c.Request.Context()
	path := c.Request.URL.Path
	route, params := s.table.Match(path)

	session := s.sessions.Resolve(c.Request)
	auth.SetSession(c, session)

	csrf := middleware.GetCSRFToken(c)
	req := page.Request{
		Path:      path,
		Params:    params,
		Query:     c.Request.URL.Query(),
		Method:    c.Request.Method,
		Session:   session,
		CSRFToken: csrf,
	}
	if req.IsPost() {
		if err := c.Request.ParseForm(); err != nil {
			s.logger.WarnContext(ctx, "malformed form submission", slog.String("path", path), slog.Any("error", err))
		}
		req.Form = c.Request.PostForm
	}

	var view page.View
	result := s.boundary.Render(func() (template.HTML, error) {
		v, err := route.Page.Render(ctx, req)
		if err != nil {
			return "", err
		}
		view = v
		if v.Redirect != "" {
			return "", nil
		}
		return s.renderer.Fragment(v.Template, v.Data)
	})

	if !result.Failed() {
		for _, ck := range view.Cookies {
			http.SetCookie(c.Writer, ck)
		}
		if view.Redirect != "" {
			s.redirect(c, view.Redirect)
			return
		}
	}

	status, title, body := view.StatusCode(), view.Title, result.HTML
	if result.Failed() {
		s.logFailure(ctx, route, result.Err)
		status = http.StatusInternalServerError
		title = "Something went wrong"
		body = s.fallback(c, path)
	}

	nav := &Navigation{Path: path, Pattern: route.Pattern, HTMX: middleware.IsHTMX(c)}
	for _, e := range s.effects {
		e.OnNavigate(c, nav)
	}

	header := s.header.Build(path, session)
	header.CSRFToken = csrf

	c.HTML(status, DocumentTemplate, Document{
		Title:       title,
		Header:      header,
		Body:        body,
		ResetScroll: nav.ResetScroll,
		CSRFToken:   csrf,
		RequestID:   middleware.GetRequestID(c),
	})
}

// redirect answers 303 See Other. htmx requests get HX-Redirect instead, since
// htmx follows a 303 without updating the address bar.
func (s *Shell) redirect(c *gin.Context, target string) {
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", target)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Shell) fallback(c *gin.Context, path string) template.HTML {
	html, err := s.renderer.Fragment(BoundaryTemplate, BoundaryData{
		Path:      path,
		RequestID: middleware.GetRequestID(c),
	})
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "render boundary fragment", slog.Any("error", err))
		return lastResortFallback
	}
	return html
}

func (s *Shell) logFailure(ctx context.Context, route Route, err error) {
	attrs := []any{
		slog.String("route", route.Pattern),
		slog.String("page", route.Name),
		slog.Any("error", err),
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", strings.TrimSpace(string(pe.Stack))))
	}
	s.logger.ErrorContext(ctx, "boundary caught render failure", attrs...)
}
