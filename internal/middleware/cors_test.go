package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupCORSRouter(cfg CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/api/v1/articles", func(c *gin.Context) { c.String(http.StatusOK, "[]") })
	r.OPTIONS("/api/v1/articles", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	return r
}

func TestCORS_Origins(t *testing.T) {
	tests := []struct {
		name       string
		cfg        CORSConfig
		origin     string
		wantOrigin string
		wantCreds  string
	}{
		{"wildcard", CORSConfig{AllowOrigins: []string{"*"}}, "https://a.example", "*", ""},
		{"wildcard with credentials echoes", CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}, "https://a.example", "https://a.example", "true"},
		{"listed origin", CORSConfig{AllowOrigins: []string{"https://a.example"}}, "https://a.example", "https://a.example", ""},
		{"unlisted origin", CORSConfig{AllowOrigins: []string{"https://a.example"}}, "https://evil.example", "", ""},
		{"empty list denies", CORSConfig{}, "https://a.example", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(setupCORSRouter(tt.cfg), "/api/v1/articles", map[string]string{"Origin": tt.origin})
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d; want 200", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q; want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %q; want %q", got, tt.wantCreds)
			}
		})
	}
}

func TestCORS_NoOriginSkips(t *testing.T) {
	w := doGet(setupCORSRouter(CORSConfig{AllowOrigins: []string{"*"}}), "/api/v1/articles", nil)
	if w.Header().Get("Access-Control-Allow-Origin") != "" || w.Header().Get("Vary") != "" {
		t.Errorf("unexpected CORS headers: %v", w.Header())
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := setupCORSRouter(CORSConfig{AllowOrigins: []string{"*"}, MaxAge: 12 * time.Hour})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/articles", nil)
	req.Header.Set("Origin", "https://a.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "43200" {
		t.Errorf("Max-Age = %q; want 43200", got)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Allow-Methods missing")
	}
}
