// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render converts message content into display markup.
package render

import (
	"strings"
	"time"

	"github.com/jeranaias/farmdesk/internal/util"
)

const (
	// TextLength is the default length for list previews.
	TextLength = 50

	// SnippetLength is the length of navigation snippets.
	SnippetLength = 40
)

// Truncate keeps the first n characters of text and appends "..." when
// anything was cut.
func Truncate(text string, n int) string {
	return util.Truncate(text, n)
}

// TruncateText truncates text to TextLength characters.
func TruncateText(text string) string {
	return util.Truncate(text, TextLength)
}

// TruncateSnippet truncates text to SnippetLength characters.
func TruncateSnippet(text string) string {
	return util.Truncate(text, SnippetLength)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML special characters.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// DateStyle selects a FormatDate layout.
type DateStyle int

const (
	DateFull DateStyle = iota
	DateShort
	DateTime
)

// FormatDate formats t for display. Unknown styles produce RFC 3339.
func FormatDate(t time.Time, style DateStyle) string {
	switch style {
	case DateFull:
		return t.Format("January 2, 2006 15:04")
	case DateShort:
		return t.Format("Jan 2")
	case DateTime:
		return t.Format("15:04")
	default:
		return t.UTC().Format(time.RFC3339)
	}
}

// ParseDateStyle maps "full", "short" and "time" to a DateStyle.
func ParseDateStyle(s string) (DateStyle, bool) {
	switch strings.ToLower(s) {
	case "", "full":
		return DateFull, true
	case "short":
		return DateShort, true
	case "time":
		return DateTime, true
	default:
		return DateFull, false
	}
}
