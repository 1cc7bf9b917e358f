// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server serves the admin UI and its JSON API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/farmdesk/internal/config"
	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/scrollspy"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/user"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is used when no listen address is configured.
	DefaultAddr = "127.0.0.1:8080"

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 5 * time.Second

	// MaxMessageLength caps a single user message in bytes.
	MaxMessageLength = 32 * 1024

	cleanupInterval = time.Minute
)

// ============================================================================
// SERVER
// ============================================================================

// Options wires the stores the server exposes.
type Options struct {
	Conversations *conversation.Store
	Theme         *theme.Store
	Sidebar       *sidebar.Store
	User          *user.Store

	// HTML renders assistant replies; a default formatter is used when nil.
	HTML *render.HTMLFormatter

	Config config.ServerConfig
	// DateFormat is the display style of conversation timestamps; the zero
	// value is render.DateFull.
	DateFormat render.DateStyle
	// ScrollSpy tunes the page's current-message tracking.
	ScrollSpy scrollspy.Options
	Logger    *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	convs   *conversation.Store
	theme   *theme.Store
	sidebar *sidebar.Store
	user    *user.Store
	html    *render.HTMLFormatter

	cfg        config.ServerConfig
	dateFormat render.DateStyle
	spy        scrollspy.Options
	logger     *slog.Logger
	stats      *Stats
	limiter    *RateLimiter
	engine     *gin.Engine
}

// New creates a Server and builds its routes. Conversations, Theme, Sidebar
// and User must be non-nil.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	html := opts.HTML
	if html == nil {
		html = render.NewHTMLFormatter(render.WithLogger(logger))
	}
	s := &Server{
		convs:      opts.Conversations,
		theme:      opts.Theme,
		sidebar:    opts.Sidebar,
		user:       opts.User,
		html:       html,
		cfg:        opts.Config,
		dateFormat: opts.DateFormat,
		spy:        opts.ScrollSpy.WithDefaults(),
		logger:     logger.With("component", "server"),
		stats:      NewStats(),
		limiter:    NewRateLimiter(opts.Config.RateLimit, opts.Config.RateBurst),
	}
	s.engine = s.buildEngine()
	return s
}

// Handler returns the HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Stats returns the request counters.
func (s *Server) Stats() *Stats {
	return s.stats
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) buildEngine() *gin.Engine {
	switch s.cfg.Mode {
	case gin.DebugMode, gin.TestMode, gin.ReleaseMode:
		gin.SetMode(s.cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	e := gin.New()
	if err := e.SetTrustedProxies(trustedProxies); err != nil {
		s.logger.Warn("invalid trusted proxies", "error", err)
	}
	e.SetHTMLTemplate(pageTemplates)
	e.HandleMethodNotAllowed = true

	e.Use(
		LoggingMiddleware(s.logger, s.stats),
		RecoveryMiddleware(s.logger),
		SecurityHeadersMiddleware(),
		RateLimitMiddleware(s.limiter),
	)

	e.GET("/health", s.handleHealth)
	e.GET("/static/highlight.css", s.handleHighlightCSS)
	e.GET("/static/scrollspy.js", s.handleScrollSpyJS)

	e.GET("/", s.handlePage)
	e.GET("/chat", s.handlePage)
	e.GET("/chat/:id", s.handlePage)
	e.GET("/knowledge", s.handlePage)
	e.GET("/forms", s.handlePage)
	e.POST("/chat/send", s.handleSendForm)

	api := e.Group("/api")
	{
		api.GET("/conversations", s.handleListConversations)
		api.POST("/conversations", s.handleCreateConversation)
		api.PUT("/conversations/current", s.handleSelectConversation)
		api.GET("/conversations/:id", s.handleGetConversation)
		api.DELETE("/conversations/:id", s.handleDeleteConversation)

		api.POST("/messages", s.handleSendMessage)
		api.GET("/status", s.handleStatus)

		api.GET("/theme", s.handleGetTheme)
		api.PUT("/theme", s.handleSetTheme)

		api.GET("/sidebar", s.handleGetSidebar)
		api.PUT("/sidebar", s.handleUpdateSidebar)
		api.POST("/sidebar/pin", s.handleTogglePin)

		api.GET("/user", s.handleGetUser)
		api.POST("/user/login", s.handleLogin)
		api.POST("/user/logout", s.handleLogout)

		api.POST("/render", s.handleRender)
	}

	e.NoRoute(s.handleNoRoute)
	e.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody("method not allowed"))
	})
	return e
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.limiter.RunCleanup(cleanupCtx, cleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

type apiError struct {
	Error string `json:"error"`
}

func errorBody(msg string) apiError {
	return apiError{Error: msg}
}
