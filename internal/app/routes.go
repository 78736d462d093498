package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/inkwell/internal/middleware"
	"github.com/simp-lee/inkwell/internal/pkg"
	"github.com/simp-lee/inkwell/internal/shell"
	"github.com/simp-lee/inkwell/web"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Web        fs.FS // templates/ and static/; resolved from Mode when nil
	Modules    []Module
	Shell      *shell.Shell
	DB         *gorm.DB
	Mode       string // "debug" or "release"
	CSRFSecret string
}

// RegisterRoutes registers the JSON API, the site shell and the supporting
// routes on r.
//
// Every path outside /api/ and /static/ belongs to the shell: the route table
// patterns are registered directly and anything else reaches it through
// NoRoute, where the wildcard renders NotFound.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if deps.Shell == nil {
		return errors.New("shell is required")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}

	// The shell owns the trailing slash policy.
	r.RedirectTrailingSlash = false

	webFS := deps.Web
	if webFS == nil {
		var err error
		if webFS, err = resolveWebFS(deps.Mode); err != nil {
			return err
		}
	}
	static, err := staticHandler(webFS, deps.Mode != gin.DebugMode)
	if err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}
	r.GET("/static/*filepath", static)

	r.GET("/health", healthHandler(deps.DB))

	// API routes authenticate with bearer tokens, no CSRF.
	api := r.Group("/api/v1")
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api)
	}

	csrf := middleware.CSRF(deps.CSRFSecret)
	deps.Shell.Mount(r, csrf)
	r.NoRoute(apiNotFound(), csrf, deps.Shell.Serve)

	return nil
}

type healthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// healthHandler reports whether the article store answers a ping within a
// second. A failing store makes the whole service "degraded" with 503.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := healthReport{Status: "ok", Components: map[string]string{"database": "ok"}}
		code := http.StatusOK
		if err := pingDB(c.Request.Context(), db); err != nil {
			slog.WarnContext(c.Request.Context(), "health check failed", slog.String("component", "database"), slog.Any("error", err))
			report.Status, report.Components["database"] = "degraded", "error"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// apiNotFound answers unknown /api/ paths with the JSON envelope so API
// clients never receive the site's HTML NotFound page.
func apiNotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}
		c.Next()
	}
}

// resolveWebFS returns the embedded web assets, or in debug mode the web/
// directory on disk so template and stylesheet edits show up without a rebuild.
// The directory is looked up next to the source tree first, then next to the
// executable.
func resolveWebFS(mode string) (fs.FS, error) {
	if mode != gin.DebugMode {
		return web.EmbeddedFS, nil
	}
	var candidates []string
	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "web"))
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "web"))
	}
	for _, dir := range candidates {
		if info, err := os.Stat(filepath.Join(dir, "static")); err == nil && info.IsDir() {
			return os.DirFS(filepath.Clean(dir)), nil
		}
	}
	return nil, fmt.Errorf("debug web directory not found (tried %s)", strings.Join(candidates, ", "))
}

// staticHandler serves webFS's static/ directory under /static. Cached assets
// carry a one day Cache-Control.
func staticHandler(webFS fs.FS, cache bool) (gin.HandlerFunc, error) {
	sub, err := fs.Sub(webFS, "static")
	if err != nil {
		return nil, err
	}
	files := http.StripPrefix("/static", http.FileServer(http.FS(sub)))
	return func(c *gin.Context) {
		if cache {
			c.Header("Cache-Control", "public, max-age=86400")
		}
		files.ServeHTTP(c.Writer, c.Request)
	}, nil
}
