// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/server"
)

// HandleServe serves the browser surface until ctx is done. --addr
// overrides server.addr.
func HandleServe(ctx context.Context, w io.Writer, app *App, args Args) error {
	cfg := app.Config.Server
	if addr := args.Parser.Flag("addr", "a"); addr != "" {
		cfg.Addr = addr
	}
	if cfg.Addr == "" {
		cfg.Addr = server.DefaultAddr
	}

	srv := server.New(server.Options{
		Conversations: app.Conversations,
		Theme:         app.Theme,
		Sidebar:       app.Sidebar,
		User:          app.User,
		HTML:          render.NewHTMLFormatter(render.WithLogger(app.Logger)),
		Config:        cfg,
		DateFormat:    app.DateStyle(),
		ScrollSpy:     app.Config.ScrollSpy.Options(),
		Logger:        app.Logger,
	})

	fmt.Fprintf(w, "%s serving on %s\n", RenderStatus("ok"), highlightColor.Sprint("http://"+cfg.Addr))
	fmt.Fprintln(w, dimColor.Sprint("Press Ctrl+C to stop."))
	if err := srv.Run(ctx); err != nil {
		return &CommandError{Command: "serve", Err: err}
	}
	return nil
}
