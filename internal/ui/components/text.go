// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable TUI components for farmdesk.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks text cut by FitWidth.
const Ellipsis = "…"

// =============================================================================
// WIDTH-AWARE TEXT
// =============================================================================

// FitWidth truncates s to at most width display cells, ending with Ellipsis
// when cut.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// PadRight fits s into exactly width display cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(FitWidth(s, width), width)
}

// WrapText wraps s to width display cells, breaking at spaces when a word
// fits and mid-word otherwise. Existing line breaks are kept.
func WrapText(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		if runewidth.StringWidth(line) <= width {
			out.WriteString(line)
			continue
		}
		out.WriteString(wrapLine(line, width))
	}
	return out.String()
}

func wrapLine(line string, width int) string {
	var out strings.Builder
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(strings.TrimRight(cur.String(), " "))
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.SplitAfter(line, " ") {
		w := runewidth.StringWidth(word)
		if curWidth+w <= width {
			cur.WriteString(word)
			curWidth += w
			continue
		}
		if curWidth > 0 {
			flush()
		}
		// Hard-break words longer than a line.
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if curWidth+rw > width && curWidth > 0 {
				flush()
			}
			cur.WriteRune(r)
			curWidth += rw
		}
	}
	if cur.Len() > 0 {
		flush()
	}
	return out.String()
}
