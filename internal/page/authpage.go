package page

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/domain"
)

const defaultAfterSignIn = "/dashboard"

// AuthData backs the sign-in / sign-up page.
type AuthData struct {
	Mode  string
	Next  string
	Email string
	Name  string
	Error string
	// SignedInAs is set when the visitor already has a session.
	SignedInAs string
	CSRFToken  string
}

// Auth is the sign-in, sign-up and sign-out page. POST with mode=login,
// mode=register or mode=logout.
type Auth struct {
	Service  auth.Service
	Provider *auth.Provider
}

// Render implements Page.
func (a Auth) Render(ctx context.Context, req Request) (View, error) {
	next := SafeNext(req.Query.Get("next"))
	if req.IsPost() {
		next = SafeNext(req.Form.Get("next"))
		return a.submit(ctx, req, next)
	}

	data := AuthData{Mode: "login", Next: next, SignedInAs: req.Session.Name, CSRFToken: req.CSRFToken}
	if req.Query.Get("mode") == "register" {
		data.Mode = "register"
	}
	return authView(data, http.StatusOK), nil
}

func (a Auth) submit(ctx context.Context, req Request, next string) (View, error) {
	mode := req.Form.Get("mode")
	email := strings.TrimSpace(req.Form.Get("email"))
	password := req.Form.Get("password")
	data := AuthData{Mode: mode, Next: next, Email: email, Name: req.Form.Get("name"), CSRFToken: req.CSRFToken}

	switch mode {
	case "logout":
		if err := a.Service.Logout(ctx, req.Session.Token); err != nil {
			return View{}, fmt.Errorf("auth: logout: %w", err)
		}
		return View{Redirect: "/", Cookies: []*http.Cookie{a.Provider.ClearCookie()}}, nil

	case "register":
		if _, err := a.Service.Register(ctx, data.Name, email, password); err != nil {
			return a.failed(data, err)
		}
		fallthrough

	case "login":
		tok, err := a.Service.Login(ctx, email, password)
		if err != nil {
			return a.failed(data, err)
		}
		return View{
			Redirect: next,
			Cookies:  []*http.Cookie{a.Provider.SessionCookie(tok.Token, tok.Expiry())},
		}, nil
	}

	data.Mode = "login"
	data.Error = "Unknown action."
	return authView(data, http.StatusBadRequest), nil
}

// failed re-renders the form, with 200 so htmx swaps it in, for errors the
// visitor can fix and reports the rest to the boundary.
func (a Auth) failed(data AuthData, err error) (View, error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return View{}, fmt.Errorf("auth: %s: %w", data.Mode, err)
	}
	switch appErr.Code {
	case domain.CodeUnauthorized:
		data.Error = "Email or password is incorrect."
		return authView(data, http.StatusOK), nil
	case domain.CodeValidation, domain.CodeAlreadyExists:
		data.Error = appErr.Message
		return authView(data, http.StatusOK), nil
	}
	return View{}, fmt.Errorf("auth: %s: %w", data.Mode, err)
}

func authView(data AuthData, status int) View {
	title := "Sign in"
	if data.Mode == "register" {
		title = "Create your account"
	}
	return View{Template: "pages/auth.html", Title: title, Data: data, Status: status}
}

// SafeNext returns next when it is a same-site absolute path, otherwise the
// dashboard. Browsers drop tabs and newlines from a URL and read a backslash
// as a slash, so "/\t/host" would leave the site; control characters and
// backslashes are rejected along with scheme-relative "//host" paths.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.ContainsRune(next, '\\') ||
		strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return defaultAfterSignIn
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" || strings.HasPrefix(u.Path, "//") {
		return defaultAfterSignIn
	}
	return next
}
