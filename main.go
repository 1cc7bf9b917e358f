// farmdesk - a chat workspace for the terminal and the browser.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/farmdesk/internal/cli"
	"github.com/jeranaias/farmdesk/internal/config"
	"github.com/jeranaias/farmdesk/internal/logging"
	"github.com/jeranaias/farmdesk/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd, args := cli.ParseArgs(os.Args[1:])
	cli.ConfigureColors(args.NoColor)

	// Commands that need no state.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout, args)
		if args.Unknown != "" {
			return cli.ExitUsageError
		}
		return cli.ExitSuccess
	case cli.CmdVersion:
		return exit(cli.HandleVersion(os.Stdout, args), args)
	case cli.CmdTUI:
		if !cli.IsStdoutTTY() {
			cli.PrintUsage(os.Stdout, args)
			return cli.ExitSuccess
		}
	}

	configPath, configExists := resolveConfigPath(args.ConfigPath)
	cfg, err := loadConfig(configPath, configExists)
	if err != nil {
		return exit(err, args)
	}

	if cmd == cli.CmdConfig {
		return exit(cli.HandleConfig(os.Stdout, cfg, configPath, args), args)
	}

	logger, closer, err := setupLogging(cfg, cmd, args.Verbose)
	if err != nil {
		return exit(err, args)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.Bootstrap(ctx, cfg, configPath, cli.AppOptions{Logger: logger})
	if err != nil {
		return exit(err, args)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	if configExists && (cmd == cli.CmdTUI || cmd == cli.CmdServe) {
		if w, err := app.WatchConfig(configPath); err != nil {
			logger.Warn("config watch unavailable", "path", configPath, "error", err)
		} else {
			defer w.Close()
		}
	}

	switch cmd {
	case cli.CmdTUI:
		err = chat.Run(ctx, chat.Options{
			Conversations: app.Conversations,
			Theme:         app.Theme,
			Sidebar:       app.Sidebar,
			User:          app.User,
			ScrollSpy:     cfg.ScrollSpy.Options(),
			DateFormat:    app.DateStyle(),
			SidebarWidth:  cfg.UI.SidebarWidth,
			Logger:        logger,
		})
	case cli.CmdChat:
		err = cli.HandleChat(ctx, app, args)
	case cli.CmdList:
		err = cli.HandleList(os.Stdout, app, args)
	case cli.CmdServe:
		err = cli.HandleServe(ctx, os.Stdout, app, args)
	case cli.CmdExport:
		err = cli.HandleExport(os.Stdout, app, args)
	}
	return exit(err, args)
}

// resolveConfigPath returns the explicit path, else the first default file
// that exists, else "" (the default TOML location, not yet created).
func resolveConfigPath(explicit string) (string, bool) {
	if explicit != "" {
		_, err := os.Stat(explicit)
		return explicit, err == nil
	}
	for _, pathFn := range []func() (string, error){config.ConfigPathTOML, config.ConfigPathYAML} {
		if p, err := pathFn(); err == nil {
			if _, err := os.Stat(p); err == nil {
				return p, true
			}
		}
	}
	return "", false
}

func loadConfig(path string, exists bool) (*config.Config, error) {
	if path != "" && exists {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setupLogging sends TUI logs to a file because the view owns the terminal.
func setupLogging(cfg *config.Config, cmd cli.Command, verbose bool) (*slog.Logger, io.Closer, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
	if verbose {
		opts.Level = "debug"
	}
	if cmd == cli.CmdTUI && opts.File == "" {
		f, err := logging.DefaultFile()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve log file: %w", err)
		}
		opts.File = f
	}
	return logging.Setup(opts)
}

// exit reports err on stderr (or as JSON with --json) and maps it to an
// exit status.
func exit(err error, args cli.Args) int {
	if err == nil {
		return cli.ExitSuccess
	}
	if args.JSON {
		_ = cli.WriteJSON(os.Stdout, cli.NewJSONErrorResponse("farmdesk", err))
	} else {
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.RenderStatus("error"), err)
	}
	return cli.ExitCode(err)
}
