package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/inkwell/internal/auth"
	"github.com/simp-lee/inkwell/internal/config"
	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/middleware"
	"github.com/simp-lee/inkwell/internal/module/article"
	"github.com/simp-lee/inkwell/internal/module/user"
	"github.com/simp-lee/inkwell/internal/page"
	"github.com/simp-lee/inkwell/internal/shell"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	tokens jwt.Service
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New wires logging, storage, session tokens, the business modules, the
// pages and the shell into a ready-to-run App.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	tokenTTL := cfg.Auth.TokenTTL()
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("invalid auth.token_expiry %q", cfg.Auth.TokenExpiry)
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", slog.Any("error", err))
			}
		}
	}()

	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(&domain.User{}, &domain.Article{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	tokens, err := jwt.New(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("setup session tokens: %w", err)
	}
	defer func() {
		if !success {
			tokens.Close()
		}
	}()

	// Repository -> service -> handler, then the pages over the same services.
	userRepo := user.NewUserRepository(db)
	userSvc := user.NewUserService(userRepo)
	articleSvc := article.NewArticleService(article.NewArticleRepository(db))
	authSvc := auth.NewService(tokens, userRepo, tokenTTL)

	cookieName := cfg.Auth.CookieName
	if cookieName == "" {
		cookieName = config.DefaultSessionCookie
	}
	// gin.SetMode before NewProvider: cookies are Secure in release mode.
	gin.SetMode(cfg.Server.Mode)
	provider := auth.NewProvider(tokens, userRepo, cookieName, log.Logger)

	modules := []Module{
		auth.NewModule(auth.NewHandler(authSvc), provider),
		user.NewModule(user.NewUserHandler(userSvc), provider),
		article.NewModule(article.NewArticleHandler(articleSvc), provider),
	}

	webFS, err := resolveWebFS(cfg.Server.Mode)
	if err != nil {
		return nil, err
	}
	renderer, err := NewTemplateRenderer(webFS, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}

	table, err := shell.NewTable(shell.DefaultRoutes(shell.Pages{
		Home:      page.Home{Articles: articleSvc},
		Feed:      page.Feed{Articles: articleSvc},
		Topics:    page.Topics{Articles: articleSvc},
		Writers:   page.Writers{Users: userSvc},
		Studio:    page.Studio{Articles: articleSvc},
		Auth:      page.Auth{Service: authSvc, Provider: provider},
		Dashboard: page.Dashboard{Articles: articleSvc, Users: userSvc},
		NotFound:  page.NotFound{},
	}))
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}
	siteShell, err := shell.New(shell.Config{
		Table:    table,
		Sessions: provider,
		Renderer: renderer,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("setup shell: %w", err)
	}

	engine := gin.New()
	engine.HTMLRender = renderer
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORS(resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS)),
	)

	csrfSecret := cfg.Server.CSRFSecret
	if isPlaceholderCSRFSecret(csrfSecret) {
		if cfg.Server.Mode == gin.ReleaseMode {
			return nil, errors.New("csrf_secret must be a non-placeholder value in release mode")
		}
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate csrf secret: %w", err)
		}
		csrfSecret = hex.EncodeToString(b)
		log.Warn("no csrf_secret configured, using random secret in non-release mode (will change on restart)")
	} else if cfg.Server.Mode == gin.ReleaseMode {
		if err := validateReleaseCSRFSecret(csrfSecret); err != nil {
			return nil, err
		}
	}

	if err := RegisterRoutes(engine, &RouteDeps{
		Web:        webFS,
		Modules:    modules,
		Shell:      siteShell,
		DB:         db,
		Mode:       cfg.Server.Mode,
		CSRFSecret: csrfSecret,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		tokens: tokens,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.engine
}

func isPlaceholderCSRFSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return true
	}

	switch strings.ToLower(trimmed) {
	case "change-me-to-a-random-secret", "change-me-in-env":
		return true
	default:
		return false
	}
}

func validateReleaseCSRFSecret(secret string) error {
	secret = strings.TrimSpace(secret)
	if len(secret) < 32 {
		return errors.New("csrf_secret must be at least 32 characters in release mode")
	}
	if config.CountSecretClasses(secret) < 3 {
		return errors.New("csrf_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}
	return nil
}

// resolveCORSConfig builds the API's CORS settings. Without an allow list,
// debug mode allows any origin and release mode denies cross-origin requests.
func resolveCORSConfig(mode string, cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: cfg.AllowCredentials,
	}
	if d, err := time.ParseDuration(cfg.MaxAge); err == nil && d > 0 {
		out.MaxAge = d
	}
	if len(out.AllowOrigins) == 0 {
		if mode == gin.DebugMode {
			out.AllowOrigins = []string{"*"}
		} else {
			out.AllowOrigins = nil
		}
	}
	return out
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts
// down within five seconds and releases the token store, the database and the
// logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.tokens != nil {
		a.tokens.Close()
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", slog.Any("error", err))
			} else {
				log.Info("database connection closed")
			}
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
