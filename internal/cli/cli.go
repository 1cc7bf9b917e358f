// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information, overridden at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the subcommand to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdList
	CmdServe
	CmdConfig
	CmdExport
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdList:
		return "list"
	case CmdServe:
		return "serve"
	case CmdConfig:
		return "config"
	case CmdExport:
		return "export"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// commandNames maps every accepted name, aliases included, to its command.
var commandNames = map[string]Command{
	"tui":     CmdTUI,
	"chat":    CmdChat,
	"list":    CmdList,
	"ls":      CmdList,
	"serve":   CmdServe,
	"server":  CmdServe,
	"config":  CmdConfig,
	"export":  CmdExport,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Verbose    bool
	JSON       bool
	NoColor    bool

	// Unknown is the unrecognized command name when Parse fell back to help.
	Unknown string

	// Parser holds everything after the command name.
	Parser *ArgParser
}

const usageText = `farmdesk - conversation workspace for farm administration

Usage:
  farmdesk                          Start the terminal UI (when stdout is a terminal)
  farmdesk chat                     Line-mode chat; each line is sent and the reply printed
  farmdesk list [--query TEXT]      List conversations, most recent first
  farmdesk serve [--addr HOST:PORT] Serve the browser UI and JSON API
  farmdesk config [show|get|set|reset|path|keys]
                                    Inspect or change configuration
  farmdesk export [ID] [--format md|json|html] [--out DIR] [--stdout]
                                    Write a conversation to a file
  farmdesk version                  Show version information

Global flags:
  --config PATH    Use this config file instead of ~/.farmdesk/config.toml
  --json           Machine-readable output (list, config, export, version)
  --no-color       Disable colored output
  -v, --verbose    Debug logging

Chat commands:
  /new             Start a new conversation
  /list            List conversations
  /switch N        Switch to conversation N from /list
  /delete          Delete the current conversation
  /help            Show chat commands
  /quit            Leave chat (Ctrl+D also works)
`

// ParseArgs splits argv (without the program name) into the command and
// its arguments. Global flags may appear anywhere.
func ParseArgs(argv []string) (Command, Args) {
	var args Args
	var rest []string

	for i := 0; i < len(argv); i++ {
		a := argv[i]
		switch {
		case a == "--config" || a == "-c":
			if i+1 < len(argv) {
				args.ConfigPath = argv[i+1]
				i++
			}
		case strings.HasPrefix(a, "--config="):
			args.ConfigPath = strings.TrimPrefix(a, "--config=")
		case a == "--verbose" || a == "-v":
			args.Verbose = true
		case a == "--json":
			args.JSON = true
		case a == "--no-color":
			args.NoColor = true
		case a == "--help" || a == "-h":
			rest = append(rest, "help")
		default:
			rest = append(rest, a)
		}
	}

	cmd := CmdTUI
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		name := strings.ToLower(rest[0])
		c, ok := commandNames[name]
		if ok {
			cmd = c
		} else {
			cmd = CmdHelp
			args.Unknown = rest[0]
		}
		rest = rest[1:]
	}
	args.Parser = NewArgParser(rest)
	return cmd, args
}

// PrintUsage writes the help text. When args names an unknown command, an
// error line and a suggestion come first.
func PrintUsage(w io.Writer, args Args) {
	if args.Unknown != "" {
		fmt.Fprintln(w, errorColor.Sprintf("Unknown command: %s", args.Unknown))
		if s := SuggestCommand(args.Unknown); s != "" {
			fmt.Fprintf(w, "Did you mean %s?\n", highlightColor.Sprint(s))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, usageText)
}

// VersionInfo is the payload of "farmdesk version --json".
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// HandleVersion prints version information.
func HandleVersion(w io.Writer, args Args) error {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if args.JSON {
		return WriteJSON(w, NewJSONResponse(CmdVersion.String(), info))
	}
	fmt.Fprintf(w, "%s %s\n", titleColor.Sprint("farmdesk"), info.Version)
	fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("Commit:"), info.GitCommit)
	fmt.Fprintf(w, "  %s %s\n", labelColor.Sprint("Built: "), info.BuildDate)
	fmt.Fprintf(w, "  %s %s (%s)\n", labelColor.Sprint("Go:    "), info.GoVersion, info.Platform)
	return nil
}
