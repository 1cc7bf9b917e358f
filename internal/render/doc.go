// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render converts message content into display markup.
//
// HTMLFormatter produces sanitized HTML for the browser surface and
// TerminalFormatter produces ANSI output for the TUI. Both are pure with
// respect to their input: a conversion failure falls back to the raw
// content and never reaches the caller as an error.
//
// The package also carries the small text helpers shared by both surfaces:
// truncation, HTML escaping and date formatting.
package render
