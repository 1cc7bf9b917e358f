// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// =============================================================================
// SHARED OUTPUT COLORS
// =============================================================================

// Colors honor color.NoColor, which ConfigureColors sets.
var (
	titleColor     = color.New(color.FgCyan, color.Bold)
	labelColor     = color.New(color.FgHiBlack)
	successColor   = color.New(color.FgGreen, color.Bold)
	errorColor     = color.New(color.FgRed, color.Bold)
	warningColor   = color.New(color.FgYellow)
	highlightColor = color.New(color.FgHiGreen)
	dimColor       = color.New(color.FgHiBlack)
	userColor      = color.New(color.FgCyan, color.Bold)
	replyColor     = color.New(color.FgMagenta, color.Bold)
)

// ConfigureColors decides on colored output once for the process and
// applies it to both fatih/color and lipgloss.
func ConfigureColors(noColor bool) {
	if noColor {
		ForceColorsEnabled(false)
	}
	lipgloss.SetColorProfile(GetColorProfile())
}

// RenderSeparator returns a rule of width columns, 70 when width is zero.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 70
	}
	return dimColor.Sprint(strings.Repeat("-", width))
}

// RenderStatus renders a bracketed status tag.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "success", "ready":
		return successColor.Sprint("[OK]")
	case "error", "fail", "failed":
		return errorColor.Sprint("[FAIL]")
	case "pending", "thinking":
		return warningColor.Sprint("[...]")
	default:
		return dimColor.Sprint("[" + strings.ToUpper(status) + "]")
	}
}
