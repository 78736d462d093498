package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

const sessionContextKey = "auth_session"

// UserLookup is the subset of domain.UserRepository the provider needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*domain.User, error)
}

// Provider resolves the Session of a request from the session cookie or an
// "Authorization: Bearer" header. A missing, invalid, expired or revoked token,
// or a token whose user no longer exists, resolves to the anonymous session.
type Provider struct {
	tokens     jwt.Service
	users      UserLookup
	cookieName string
	secure     bool
	logger     *slog.Logger
}

// NewProvider creates a Provider. Cookies are marked Secure in release mode.
func NewProvider(tokens jwt.Service, users UserLookup, cookieName string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		tokens:     tokens,
		users:      users,
		cookieName: cookieName,
		secure:     gin.Mode() == gin.ReleaseMode,
		logger:     logger,
	}
}

// Resolve returns the session for r.
func (p *Provider) Resolve(r *http.Request) Session {
	raw := p.tokenFrom(r)
	if raw == "" {
		return Session{}
	}

	tok, err := p.tokens.ValidateToken(raw)
	if err != nil || tok == nil || p.tokens.IsTokenRevoked(raw) {
		return Session{}
	}

	id, err := strconv.ParseUint(tok.UserID, 10, 64)
	if err != nil || id == 0 {
		return Session{}
	}

	user, err := p.users.GetByID(r.Context(), uint(id))
	if err != nil {
		if !domain.IsNotFound(err) {
			p.logger.WarnContext(r.Context(), "session user lookup failed",
				slog.Uint64("user_id", id),
				slog.String("error", err.Error()),
			)
		}
		return Session{}
	}

	return Session{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Token:     raw,
		ExpiresAt: tok.ExpiresAt,
	}
}

func (p *Provider) tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if ck, err := r.Cookie(p.cookieName); err == nil {
		return ck.Value
	}
	return ""
}

// Middleware resolves the session once and stores it in the gin context for
// CurrentSession.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetSession(c, p.Resolve(c.Request))
		c.Next()
	}
}

// SetSession stores s in the gin context for CurrentSession.
func SetSession(c *gin.Context, s Session) {
	c.Set(sessionContextKey, s)
}

// RequireSession rejects anonymous API requests with 401. It must run after
// Middleware.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Authenticated() {
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by Middleware, or the anonymous
// session.
func CurrentSession(c *gin.Context) Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(Session); ok {
			return s
		}
	}
	return Session{}
}

// SessionCookie builds the cookie that carries token until expires.
func (p *Provider) SessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     p.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session cookie.
func (p *Provider) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     p.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
