// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across farmdesk packages.
package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended to text shortened by Truncate.
const Ellipsis = "..."

// UNICODE: All lengths are counted in runes, never bytes, so multi-byte
// characters are not split in the middle.

// Truncate keeps the first maxLen characters of s and appends Ellipsis when
// anything was cut. Text that already fits is returned unchanged. The kept
// prefix is the original text; a combining mark counts as its own character.
//
//	Truncate("abcdefghij", 5) == "abcde..."
//	Truncate("abc", 5)        == "abc"
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + Ellipsis
}

// Fold lowercases s in NFC form so that composed and decomposed spellings
// of the same text compare equal.
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// TruncateRunes truncates s so the result, ellipsis included, is at most
// maxRunes characters long.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= len(Ellipsis) {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-len(Ellipsis)]) + Ellipsis
}

// SingleLine collapses line breaks into spaces for one-line previews.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// RuneLen returns the number of runes (characters) in a string.
func RuneLen(s string) int {
	return len([]rune(s))
}
