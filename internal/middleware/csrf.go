package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/inkwell/internal/pkg"
)

const (
	csrfCookieName = "inkwell_csrf"
	// CSRFFormField is the hidden form field every shell form carries.
	CSRFFormField  = "_csrf"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "csrf_token"
)

// CSRF protects the shell's form submissions (POST /auth, POST /write, ...)
// with a signed double-submit cookie.
//
// Token format: hex(nonce) + "." + base64url(HMAC-SHA256(nonce, secret)).
//
// Safe methods get a token (reusing a valid cookie) that pages embed through
// GetCSRFToken. Unsafe methods must echo the cookie in the _csrf form field or
// the X-CSRF-Token header (htmx). The JSON API is mounted outside this
// middleware and authenticates with bearer tokens instead.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			rejectCSRF(c, http.StatusInternalServerError, "csrf secret is required")
		}
	}

	secure := gin.Mode() == gin.ReleaseMode
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := c.Cookie(csrfCookieName)
			if err != nil || !validToken(token, secret) {
				token, err = generateToken(secret)
				if err != nil {
					rejectCSRF(c, http.StatusInternalServerError, "failed to generate csrf token")
					return
				}
				http.SetCookie(c.Writer, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
			c.Set(csrfContextKey, token)

		default:
			cookieToken, err := c.Cookie(csrfCookieName)
			if err != nil || cookieToken == "" {
				rejectCSRF(c, http.StatusForbidden, "csrf token missing")
				return
			}
			requestToken := c.PostForm(CSRFFormField)
			if requestToken == "" {
				requestToken = c.GetHeader(csrfHeaderName)
			}
			if requestToken == "" {
				rejectCSRF(c, http.StatusForbidden, "csrf token missing")
				return
			}
			if !validToken(cookieToken, secret) || subtle.ConstantTimeCompare([]byte(cookieToken), []byte(requestToken)) != 1 {
				rejectCSRF(c, http.StatusForbidden, "csrf token invalid")
				return
			}
			c.Set(csrfContextKey, cookieToken)
		}
		c.Next()
	}
}

// GetCSRFToken returns the token stored by CSRF, or "".
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func rejectCSRF(c *gin.Context, status int, msg string) {
	if wantsHTML(c) {
		c.Data(status, "text/plain; charset=utf-8", []byte(msg))
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, pkg.Response{Code: status, Message: msg})
}

func generateToken(secret string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	n := hex.EncodeToString(nonce)
	return n + "." + signNonce(n, secret), nil
}

func signNonce(nonce, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// validToken checks the token shape and its HMAC signature.
func validToken(token, secret string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(signNonce(nonce, secret))) == 1
}
