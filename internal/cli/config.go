// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command: config [subcommand]
//
// Subcommands:
//
//	show (default)      display the effective configuration
//	get <key>           print one value
//	set <key> <value>   change one value and save the file
//	reset               write the defaults
//	path                show the config file location
//	keys                list every key
//
// Examples:
//
//	farmdesk config set ui.theme dark
//	farmdesk config set storage.backend sqlite
//	farmdesk config get server.addr --json
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/farmdesk/internal/config"
)

// HandleConfig runs the config command against cfg, loaded from path (empty
// means the default TOML location).
func HandleConfig(w io.Writer, cfg *config.Config, path string, args Args) error {
	if path == "" {
		p, err := config.ConfigPathTOML()
		if err != nil {
			return &CommandError{Command: "config", Err: err}
		}
		path = p
	}

	p := args.Parser
	switch sub := p.Subcommand(); sub {
	case "", "show":
		return configShow(w, cfg, args.JSON)
	case "get":
		return configGet(w, cfg, p.Positional(1), args.JSON)
	case "set":
		return configSet(w, cfg, path, p.Positional(1), strings.Join(p.PositionalFrom(2), " "))
	case "reset":
		if err := saveConfig(config.Default(), path); err != nil {
			return &CommandError{Command: "config", Action: "reset", Err: err}
		}
		fmt.Fprintf(w, "%s configuration reset: %s\n", RenderStatus("ok"), path)
		return nil
	case "path":
		if args.JSON {
			return WriteJSON(w, NewJSONResponse("config", map[string]string{"path": path}))
		}
		fmt.Fprintln(w, path)
		return nil
	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(w, k)
		}
		return nil
	default:
		return usageErrorf("unknown config subcommand %q (show, get, set, reset, path, keys)", sub)
	}
}

func configShow(w io.Writer, cfg *config.Config, asJSON bool) error {
	if asJSON {
		return WriteJSON(w, NewJSONResponse("config", cfg))
	}
	section := ""
	for _, key := range config.GetAllKeys() {
		head, _, _ := strings.Cut(key, ".")
		if head != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, titleColor.Sprintf("[%s]", head))
			section = head
		}
		v, err := cfg.Get(key)
		if err != nil {
			return &CommandError{Command: "config", Action: "show", Err: err}
		}
		fmt.Fprintf(w, "  %s %v\n", labelColor.Sprintf("%-28s", key), v)
	}
	return nil
}

func configGet(w io.Writer, cfg *config.Config, key string, asJSON bool) error {
	if key == "" {
		return usageErrorf("config get needs a key; see: farmdesk config keys")
	}
	v, err := cfg.Get(key)
	if err != nil {
		return &CommandError{Command: "config", Action: "get", Err: err}
	}
	if asJSON {
		return WriteJSON(w, NewJSONResponse("config", map[string]any{"key": key, "value": v}))
	}
	fmt.Fprintln(w, v)
	return nil
}

// configSet validates on a copy so that a rejected value never reaches the
// file.
func configSet(w io.Writer, cfg *config.Config, path, key, value string) error {
	if key == "" {
		return usageErrorf("config set needs a key and a value")
	}
	next := cfg.Clone()
	if err := next.Set(key, value); err != nil {
		return &CommandError{Command: "config", Action: "set", Err: err}
	}
	if err := next.Validate(); err != nil {
		return &CommandError{Command: "config", Action: "set", Err: err}
	}
	if err := saveConfig(next, path); err != nil {
		return &CommandError{Command: "config", Action: "set", Err: err}
	}
	*cfg = *next
	fmt.Fprintf(w, "%s %s = %s\n", RenderStatus("ok"), key, value)
	return nil
}

// saveConfig writes YAML for .yaml/.yml paths and TOML otherwise.
func saveConfig(cfg *config.Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.SaveYAML(cfg, path)
	default:
		return config.SaveTOML(cfg, path)
	}
}
