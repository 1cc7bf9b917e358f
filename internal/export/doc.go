// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to files for sharing outside farmdesk.
//
// # Key Types
//
//   - Format: Export format enumeration (JSON, Markdown, HTML)
//   - Exporter: Converts one conversation to bytes
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - JSON: the conversation exactly as it is persisted
//   - Markdown: YAML front matter followed by one section per message
//   - HTML: a standalone page with highlighted code and the chosen theme
//
// # Usage
//
//	exp, err := export.ForFormat(export.FormatMarkdown, export.DefaultOptions())
//	path, err := export.ToFile(conv, exp, opts)
package export
