// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands for
// farmdesk.
//
// # Key Types
//
//   - Command: the subcommand selected on the command line
//   - Args: parsed global flags plus the command's own arguments
//   - App: the stores and configuration every command works against
//   - LineReader: the prompt used by the chat REPL (liner in production)
//
// # Usage
//
//	cmd, args := cli.ParseArgs(os.Args[1:])
//	switch cmd {
//	case cli.CmdChat:
//	    err = cli.HandleChat(ctx, app, args)
//	case cli.CmdList:
//	    err = cli.HandleList(os.Stdout, app, args)
//	}
//
// # Commands
//
//   - (none): terminal UI when stdout is a terminal, usage otherwise
//   - chat: line REPL; each line is sent and the reply printed
//   - list: conversations, optionally filtered with --query
//   - serve: browser surface
//   - config: show, get, set, reset, path and keys
//   - export: one conversation as Markdown, JSON or HTML
//   - version
//
// list, config and export accept --json.
package cli
