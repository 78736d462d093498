package app

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/page"
	"github.com/simp-lee/inkwell/internal/shell"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCSRFSecret = "route-test-csrf-secret"

// routeTestFS is the smallest template set the shell can render.
func routeTestFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{ define "base" }}<title>{{ .Title }}</title><main id="outlet">{{ .Body }}</main>{{ end }}`),
		},
		"templates/shell.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}`),
		},
		"templates/pages/home.html": &fstest.MapFile{
			Data: []byte(`home:{{ .CSRF }}`),
		},
		"templates/pages/not_found.html": &fstest.MapFile{
			Data: []byte(`missing:{{ .Path }}`),
		},
		"templates/fragments/boundary.html": &fstest.MapFile{
			Data: []byte(`boundary:{{ .Path }}`),
		},
	}
}

type anonymousSessions struct{}

func (anonymousSessions) Resolve(*http.Request) auth.Session { return auth.Session{} }

// newTestShell builds a shell with a home page and the NotFound wildcard.
func newTestShell(t *testing.T) (*shell.Shell, *TemplateRenderer) {
	t.Helper()
	renderer, err := NewTemplateRenderer(routeTestFS(), false)
	if err != nil {
		t.Fatalf("NewTemplateRenderer() error = %v", err)
	}
	home := page.Func(func(_ context.Context, req page.Request) (page.View, error) {
		return page.View{
			Template: "pages/home.html",
			Title:    "Home",
			Data:     map[string]string{"CSRF": req.CSRFToken},
		}, nil
	})
	table, err := shell.NewTable([]shell.Route{
		{Pattern: "/", Name: "home", Page: home},
		{Pattern: shell.Wildcard, Name: "not_found", Page: page.NotFound{}},
	})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	sh, err := shell.New(shell.Config{Table: table, Sessions: anonymousSessions{}, Renderer: renderer})
	if err != nil {
		t.Fatalf("shell.New() error = %v", err)
	}
	return sh, renderer
}

// mockModule implements Module for testing.
type mockModule struct {
	called bool
}

func (m *mockModule) RegisterRoutes(api *gin.RouterGroup) {
	m.called = true
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"pong": true}) })
}

func setupRoutedEngine(t *testing.T, modules ...Module) *gin.Engine {
	t.Helper()
	sh, renderer := newTestShell(t)
	r := gin.New()
	r.HTMLRender = renderer
	if err := RegisterRoutes(r, &RouteDeps{
		Modules:    modules,
		Shell:      sh,
		DB:         openTestSQLiteDB(t),
		Mode:       gin.ReleaseMode,
		CSRFSecret: testCSRFSecret,
	}); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealthHandler_OK(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(openTestSQLiteDB(t)))

	w := serve(r, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	comps, ok := body["components"].(map[string]any)
	if !ok {
		t.Fatal("missing components")
	}
	if comps["database"] != "ok" {
		t.Errorf("expected database ok, got %v", comps["database"])
	}
}

func TestHealthHandler_DBDown(t *testing.T) {
	db := openTestSQLiteDB(t)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	r := gin.New()
	r.GET("/health", healthHandler(db))

	w := serve(r, http.MethodGet, "/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected status degraded, got %v", body["status"])
	}
}

func TestHealthHandler_NilDB(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(nil))
	if w := serve(r, http.MethodGet, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHealthHandler_UsesRequestContextTimeout(t *testing.T) {
	registerBlockingPingDriver()

	sqlDB, err := sql.Open(blockingPingDriverName, "")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	r := gin.New()
	r.GET("/health", healthHandler(db))

	reqCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(reqCtx)

	start := time.Now()
	r.ServeHTTP(w, req)
	elapsed := time.Since(start)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if elapsed > 300*time.Millisecond {
		t.Fatalf("expected health response to honor request context timeout, elapsed=%v", elapsed)
	}
}

func TestAPINotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(apiNotFound(), func(c *gin.Context) { c.String(http.StatusTeapot, "shell") })

	w := serve(r, http.MethodGet, "/api/v1/missing")
	if w.Code != http.StatusNotFound {
		t.Fatalf("API path status = %d, want 404", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("API 404 should be JSON: %v", err)
	}
	if body["message"] != "not found" {
		t.Errorf("message = %v", body["message"])
	}

	// "/apiary" is a site path, not the API.
	for _, path := range []string{"/apiary", "/missing"} {
		if w := serve(r, http.MethodGet, path); w.Code != http.StatusTeapot {
			t.Errorf("%s status = %d, want the shell", path, w.Code)
		}
	}
}

func TestResolveWebFS(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode} {
		t.Run(mode, func(t *testing.T) {
			webFS, err := resolveWebFS(mode)
			if err != nil {
				t.Fatalf("resolveWebFS() error = %v", err)
			}
			for _, name := range []string{"static/app.css", "templates/shell.html"} {
				if _, err := fs.Stat(webFS, name); err != nil {
					t.Errorf("%s: %v", name, err)
				}
			}
		})
	}
}

func TestStaticHandler(t *testing.T) {
	webFS := fstest.MapFS{
		"static/app.css": &fstest.MapFile{Data: []byte("body{}")},
	}
	tests := []struct {
		name      string
		cache     bool
		wantCache string
	}{
		{"cached", true, "public, max-age=86400"},
		{"uncached", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := staticHandler(webFS, tt.cache)
			if err != nil {
				t.Fatalf("staticHandler() error = %v", err)
			}
			r := gin.New()
			r.GET("/static/*filepath", h)

			w := serve(r, http.MethodGet, "/static/app.css")
			if w.Code != http.StatusOK || w.Body.String() != "body{}" {
				t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
			}
			if got := w.Header().Get("Cache-Control"); got != tt.wantCache {
				t.Errorf("Cache-Control = %q; want %q", got, tt.wantCache)
			}
			if w := serve(r, http.MethodGet, "/static/missing.css"); w.Code != http.StatusNotFound {
				t.Errorf("missing asset status = %d", w.Code)
			}
		})
	}
}

func TestRegisterRoutes_Validation(t *testing.T) {
	sh, _ := newTestShell(t)
	tests := []struct {
		name string
		r    *gin.Engine
		deps *RouteDeps
		want string
	}{
		{"nil router", nil, &RouteDeps{}, "router is nil"},
		{"nil deps", gin.New(), nil, "route dependencies are nil"},
		{"no shell", gin.New(), &RouteDeps{Modules: []Module{&mockModule{}}, CSRFSecret: testCSRFSecret}, "shell is required"},
		{"no modules", gin.New(), &RouteDeps{Shell: sh, CSRFSecret: testCSRFSecret}, "at least one module is required"},
		{"blank csrf secret", gin.New(), &RouteDeps{Shell: sh, Modules: []Module{&mockModule{}}, CSRFSecret: "  "}, "csrf secret is required"},
		{"nil module", gin.New(), &RouteDeps{Shell: sh, Modules: []Module{&mockModule{}, nil}, CSRFSecret: testCSRFSecret, Mode: gin.ReleaseMode}, "module at index 1 is nil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterRoutes(tt.r, tt.deps)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("RegisterRoutes() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRegisterRoutes_ModulesMountOnAPIGroup(t *testing.T) {
	m := &mockModule{}
	r := setupRoutedEngine(t, m)
	if !m.called {
		t.Fatal("module RegisterRoutes was not called")
	}
	if w := serve(r, http.MethodGet, "/api/v1/ping"); w.Code != http.StatusOK {
		t.Errorf("GET /api/v1/ping status = %d", w.Code)
	}
}

func TestRegisterRoutes_ShellOwnsSitePaths(t *testing.T) {
	r := setupRoutedEngine(t, &mockModule{})

	w := serve(r, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<title>Home</title>") || !strings.Contains(body, `<main id="outlet">home:`) {
		t.Errorf("GET / body = %s", body)
	}
	if strings.HasSuffix(strings.TrimSpace(body), "home:</main>") {
		t.Error("home page should receive a CSRF token")
	}

	for _, path := range []string{"/no/such/place", "/api", "/apiary"} {
		w := serve(r, http.MethodGet, path)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "missing:"+path) {
			t.Errorf("GET %s should render NotFound in the outlet: %s", path, w.Body.String())
		}
	}

	w = serve(r, http.MethodGet, "/api/v1/missing")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Errorf("unknown API path status = %d content-type = %q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestRegisterRoutes_TrailingSlashIsNotRedirected(t *testing.T) {
	r := setupRoutedEngine(t, &mockModule{})
	w := serve(r, http.MethodGet, "/no/such/place/")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 from the shell", w.Code)
	}
}

func TestRegisterRoutes_ShellPostRequiresCSRF(t *testing.T) {
	r := setupRoutedEngine(t, &mockModule{})
	if w := serve(r, http.MethodPost, "/"); w.Code != http.StatusForbidden {
		t.Fatalf("POST / without token status = %d, want 403", w.Code)
	}
}

func openTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db
}

const blockingPingDriverName = "inkwell_blocking_ping"

var registerBlockingPingDriverOnce sync.Once

func registerBlockingPingDriver() {
	registerBlockingPingDriverOnce.Do(func() {
		sql.Register(blockingPingDriverName, blockingPingDriver{})
	})
}

type blockingPingDriver struct{}

func (blockingPingDriver) Open(string) (driver.Conn, error) {
	return blockingPingConn{}, nil
}

type blockingPingConn struct{}

func (blockingPingConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (blockingPingConn) Close() error                        { return nil }
func (blockingPingConn) Begin() (driver.Tx, error)           { return blockingPingTx{}, nil }

func (blockingPingConn) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type blockingPingTx struct{}

func (blockingPingTx) Commit() error   { return nil }
func (blockingPingTx) Rollback() error { return nil }
