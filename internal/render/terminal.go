// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render converts message content into display markup.
package render

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Glamour style names accepted by NewTerminalFormatter.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// DefaultWordWrap is the wrap width when none is configured.
const DefaultWordWrap = 80

// TerminalFormatter renders markdown for the terminal with glamour.
type TerminalFormatter struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	style    string
	wrap     int
	logger   *slog.Logger
}

// NewTerminalFormatter creates a formatter for style and wrap width. If the
// renderer cannot be built the formatter passes content through unchanged.
func NewTerminalFormatter(style string, wordWrap int) *TerminalFormatter {
	f := &TerminalFormatter{logger: slog.Default()}
	f.configure(style, wordWrap)
	return f
}

// SetStyle rebuilds the renderer when style or width changed.
func (f *TerminalFormatter) SetStyle(style string, wordWrap int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if style == f.style && wordWrap == f.wrap {
		return
	}
	f.configureLocked(style, wordWrap)
}

// Style returns the active glamour style name.
func (f *TerminalFormatter) Style() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.style
}

func (f *TerminalFormatter) configure(style string, wordWrap int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configureLocked(style, wordWrap)
}

func (f *TerminalFormatter) configureLocked(style string, wordWrap int) {
	if style == "" {
		style = StyleDark
	}
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}
	f.style = style
	f.wrap = wordWrap

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		f.logger.Warn("terminal renderer unavailable", "style", style, "error", err)
		f.renderer = nil
		return
	}
	f.renderer = r
}

// Render converts content to ANSI text, or returns it unchanged on failure.
func (f *TerminalFormatter) Render(content string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.renderer == nil {
		return content
	}
	out, err := f.renderer.Render(content)
	if err != nil {
		f.logger.Warn("terminal render failed", "error", err)
		return content
	}
	return strings.TrimRight(out, "\n")
}
