// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for farmdesk.
//
// Supports both TOML and YAML configuration formats, with sensible defaults,
// environment variable overrides, validation, and hot reload.
//
// # Sections
//
//   - storage: persistence backend (file, bolt, sqlite, memory) and path
//   - reply: simulated assistant latency
//   - scroll_spy: current-message tracker threshold, root margin, snippet size
//   - ui: initial theme, word wrap, sidebar width, date format
//   - server: listen address, per-client rate limit, gin mode
//   - logging: level, format (text or json), output file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FARMDESK_*)
//   - ~/.farmdesk/config.toml
//   - ~/.farmdesk/config.yaml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Reload on change:
//
//	w, err := config.Watch(path, 0, func(cfg *config.Config, err error) {
//	    if err == nil {
//	        config.SetGlobal(cfg)
//	    }
//	})
package config
