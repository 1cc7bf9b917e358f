// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/farmdesk/internal/config"
	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/storage"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/user"
)

// restoreTimeout bounds loading persisted state at startup.
const restoreTimeout = 10 * time.Second

// App is the state shared by every command.
type App struct {
	Config     *config.Config
	ConfigPath string

	Persister     storage.Persister
	Conversations *conversation.Store
	Theme         *theme.Store
	Sidebar       *sidebar.Store
	User          *user.Store

	Logger *slog.Logger
}

// AppOptions customizes Bootstrap.
type AppOptions struct {
	// Responder replaces the simulated assistant.
	Responder conversation.Responder
	// Detector resolves the system theme; nil means the terminal background.
	Detector theme.Detector
	Logger   *slog.Logger
}

// Bootstrap opens storage, creates every store and restores its state.
// Restore failures are logged and leave that store empty.
func Bootstrap(ctx context.Context, cfg *config.Config, configPath string, opts AppOptions) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p, err := storage.Open(storage.Options{Backend: cfg.Storage.Backend, Path: cfg.Storage.Path})
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	responder := opts.Responder
	if responder == nil {
		responder = conversation.SimulatedResponder{Delay: cfg.Reply.Delay()}
	}

	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
		Persister:  p,
		Conversations: conversation.NewStore(conversation.Options{
			Responder: responder,
			Persister: p,
			Logger:    logger,
		}),
		Theme: theme.NewStore(theme.StoreOptions{
			Persister: p,
			Detector:  opts.Detector,
			Logger:    logger,
		}),
		Sidebar: sidebar.NewStore(p, logger),
		User:    user.NewStore(p, logger),
		Logger:  logger,
	}

	ctx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()

	// The configured theme only applies until the user picks one.
	_, persisted, err := p.Load(ctx, storage.KeyTheme)
	if err == nil && !persisted {
		if mode, perr := theme.ParseMode(cfg.UI.Theme); perr == nil {
			if serr := app.Theme.SetTheme(mode); serr != nil {
				logger.Warn("apply configured theme", "error", serr)
			}
		}
	}

	restorers := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"conversations", app.Conversations.Restore},
		{"theme", app.Theme.Restore},
		{"sidebar", app.Sidebar.Restore},
		{"user", app.User.Restore},
	}
	for _, r := range restorers {
		if err := r.fn(ctx); err != nil {
			logger.Warn("restore failed, starting empty", "store", r.name, "error", err)
		}
	}
	return app, nil
}

// DateStyle returns the configured timestamp style.
func (a *App) DateStyle() render.DateStyle {
	style, _ := render.ParseDateStyle(a.Config.UI.DateFormat)
	return style
}

// WatchConfig reloads the config file on change and applies the theme
// mode when it changed. An invalid file is logged and ignored. The returned
// watcher must be closed.
func (a *App) WatchConfig(path string) (*config.Watcher, error) {
	var mu sync.Mutex
	lastTheme := a.Config.UI.Theme

	return config.Watch(path, 0, func(cfg *config.Config, err error) {
		if err != nil {
			a.Logger.Warn("config reload rejected, keeping previous", "path", path, "error", err)
			return
		}
		mu.Lock()
		changed := cfg.UI.Theme != lastTheme
		lastTheme = cfg.UI.Theme
		mu.Unlock()

		if changed {
			if mode, perr := theme.ParseMode(cfg.UI.Theme); perr == nil {
				if serr := a.Theme.SetTheme(mode); serr != nil {
					a.Logger.Warn("apply reloaded theme", "error", serr)
				}
			}
		}
		a.Logger.Info("config reloaded", "path", path, "theme_changed", changed)
	})
}

// Close cancels pending replies and releases storage.
func (a *App) Close() error {
	a.Conversations.Close()
	return a.Persister.Close()
}
