package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupLoggerRouter(buf *bytes.Buffer) *gin.Engine {
	r := gin.New()
	r.Use(Logger(newTestLogger(buf)))
	r.GET("/explore", func(c *gin.Context) { c.String(http.StatusOK, "feed") })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.NoRoute(func(c *gin.Context) { c.String(http.StatusNotFound, "missing") })
	return r
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		path      string
		wantLevel string
	}{
		{"/explore", "level=INFO"},
		{"/nowhere", "level=WARN"},
		{"/boom", "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			doGet(setupLoggerRouter(&buf), tt.path, nil)
			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("log %q does not contain %q", buf.String(), tt.wantLevel)
			}
		})
	}
}

func TestLogger_Attributes(t *testing.T) {
	var buf bytes.Buffer
	doGet(setupLoggerRouter(&buf), "/explore", map[string]string{"HX-Request": "true"})

	out := buf.String()
	for _, want := range []string{"method=GET", "path=/explore", "route=/explore", "status=200", "bytes=4", "htmx=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestLogger_UnmatchedRouteIsShell(t *testing.T) {
	var buf bytes.Buffer
	doGet(setupLoggerRouter(&buf), "/nowhere", nil)
	if !strings.Contains(buf.String(), "route=shell") {
		t.Errorf("log %q missing route=shell", buf.String())
	}
	if strings.Contains(buf.String(), "htmx=") {
		t.Errorf("non-htmx request logged htmx attr: %q", buf.String())
	}
}

func TestLogger_NilUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(newTestLogger(&buf))
	defer slog.SetDefault(prev)

	r := gin.New()
	r.Use(Logger(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	doGet(r, "/", nil)

	if !strings.Contains(buf.String(), "status=204") {
		t.Errorf("default logger not used: %q", buf.String())
	}
}
