// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the process-wide slog logger.
//
// Text output is colorized for terminals and plain for files; json output
// uses the standard slog JSON handler.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Options configures Setup.
type Options struct {
	Level  string
	Format string
	// File, when set, receives output instead of Writer.
	File string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// ParseLevel maps debug, info, warn and error to a slog level. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup creates a logger for opts. The returned closer releases the log
// file, if one was opened.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	toFile := false

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer, toFile = f, f, true
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = NewColorHandler(w, level, toFile)
	}
	return slog.New(handler), closer, nil
}

// DefaultFile returns ~/.farmdesk/farmdesk.log.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".farmdesk", "farmdesk.log"), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// =============================================================================
// COLOR HANDLER
// =============================================================================

// ColorHandler provides colorized log output with thread-safe writes.
type ColorHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	level   slog.Level
	noColor bool
	attrs   []slog.Attr
	groups  []string
}

// NewColorHandler writes records at or above level to w. noColor strips
// escape codes for non-terminal output.
func NewColorHandler(w io.Writer, level slog.Level, noColor bool) *ColorHandler {
	return &ColorHandler{mu: &sync.Mutex{}, w: w, level: level, noColor: noColor}
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ColorHandler) paint(c *color.Color, s string) string {
	if h.noColor {
		return s
	}
	return c.Sprint(s)
}

var (
	grayColor  = color.New(color.FgHiBlack)
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.paint(grayColor, r.Time.Format("15:04:05")+" "))

	switch {
	case r.Level >= slog.LevelError:
		buf.WriteString(h.paint(errorColor, "ERR "))
	case r.Level >= slog.LevelWarn:
		buf.WriteString(h.paint(warnColor, "WRN "))
	case r.Level >= slog.LevelInfo:
		buf.WriteString(h.paint(infoColor, "INF "))
	default:
		buf.WriteString(h.paint(debugColor, "DBG "))
	}

	buf.WriteString(r.Message)

	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	for _, a := range h.attrs {
		buf.WriteString(h.paint(grayColor, " "+a.Key+"="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(h.paint(grayColor, " "+prefix+a.Key+"="))
		buf.WriteString(a.Value.String())
		return true
	})
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for _, a := range attrs {
		a.Key = prefix + a.Key
		newAttrs = append(newAttrs, a)
	}
	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	clone := *h
	clone.groups = newGroups
	return &clone
}
