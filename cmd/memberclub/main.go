// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/memberclub-app/memberclub/internal/config"
	"github.com/memberclub-app/memberclub/internal/handler"
	"github.com/memberclub-app/memberclub/internal/logging"
	"github.com/memberclub-app/memberclub/internal/middleware"
	"github.com/memberclub-app/memberclub/internal/oauth"
	"github.com/memberclub-app/memberclub/internal/render"
	"github.com/memberclub-app/memberclub/internal/scheduler"
	"github.com/memberclub-app/memberclub/internal/session"
	"github.com/memberclub-app/memberclub/internal/store"
	"github.com/memberclub-app/memberclub/internal/version"
	"github.com/memberclub-app/memberclub/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "memberclub - Members-only club board\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_SESSION_SECRET        Session/CSRF secret (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_DB_PATH               SQLite database path (default: ./data/memberclub.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_GOOGLE_CLIENT_ID      Google OAuth client ID (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_GOOGLE_CLIENT_SECRET  Google OAuth client secret (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_GOOGLE_REDIRECT_URL   Google OAuth redirect URL (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_MEMBER_INVITE_CODE    Member invite code seeded on startup (default: member)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CLUB_ADMIN_INVITE_CODE     Admin invite code seeded on startup (default: admin)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("memberclub %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed invite codes
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.MemberInviteCode, cfg.AdminInviteCode); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager and user binder
	sessionManager := session.New(db, cfg.IsDevelopment())
	binder := session.NewBinder(sessionManager, db)
	slog.Info("session manager initialized",
		"idle_timeout", session.IdleTimeout.String(),
		"lifetime", session.Lifetime.String(),
	)

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Initialize Google sign-in when configured
	var googleProvider *oauth.GoogleProvider
	if cfg.GoogleEnabled() {
		googleProvider, err = oauth.NewGoogle(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return fmt.Errorf("initializing google sign-in: %w", err)
		}
		slog.Info("google sign-in enabled", "redirect_url", cfg.GoogleRedirectURL)
	} else {
		slog.Info("google sign-in disabled")
	}

	// Initialize and start scheduler
	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized",
		"hsts", !cfg.IsDevelopment(),
		"x_frame_options", "SAMEORIGIN",
	)

	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.ServerPort, cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Every request gets the current user when a live session exists
	r.Use(middleware.LoadUser(binder))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(db, renderer, binder, loginProtection)
	oauthHandler := handler.NewOAuthHandler(db, renderer, binder, googleProvider, cfg.IsDevelopment())
	postsHandler := handler.NewPostsHandler(db, renderer)
	homeHandler := handler.NewHomeHandler(renderer, oauthHandler.Enabled())
	healthHandler := handler.NewHealthHandler(db, versionInfo)

	r.Get(handler.RouteHealth, healthHandler.Health)

	// Public pages
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get(handler.RouteRoot, homeHandler.Home)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteSignup, authHandler.SignupForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteSignup, authHandler.Signup)
		r.Post(handler.RouteLogout, authHandler.Logout)

		// Google sign-in (returns an explanatory flash when not configured)
		r.Get(handler.RouteGoogleLogin, oauthHandler.GoogleLogin)
		r.Get(handler.RouteGoogleCallback, oauthHandler.GoogleCallback)
	})

	// Invite code redemption (login required)
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireLogin())
		r.Get(handler.RouteJoinMembership, authHandler.JoinMembershipForm)
		r.Post(handler.RouteJoinMembership, authHandler.JoinMembership)
		r.Get(handler.RouteJoinAdmin, authHandler.JoinAdminForm)
		r.Post(handler.RouteJoinAdmin, authHandler.JoinAdmin)
	})

	// Post board (login required)
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireLogin())
		r.Get(handler.RoutePosts, postsHandler.List)
		r.Get(handler.RoutePostsNew, postsHandler.NewForm)
		r.Post(handler.RoutePosts, postsHandler.Create)
		r.Post(handler.RoutePostDelete, postsHandler.Delete)
	})

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
