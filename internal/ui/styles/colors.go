// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the farmdesk TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/farmdesk/internal/theme"
)

// =============================================================================
// PALETTES
// =============================================================================

// Palette is the set of colors for one applied theme.
type Palette struct {
	Accent  lipgloss.Color
	Info    lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color

	Surface       lipgloss.Color
	SurfaceDim    lipgloss.Color
	SurfaceBright lipgloss.Color
	Overlay       lipgloss.Color

	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	UserBubbleFg      lipgloss.Color
	UserBubbleBorder  lipgloss.Color
	ReplyBubbleFg     lipgloss.Color
	ReplyBubbleBorder lipgloss.Color
	SelectionBg       lipgloss.Color
}

// Light is the palette for the light theme.
var Light = Palette{
	Accent:  "#7C3AED",
	Info:    "#0891B2",
	Success: "#15803D",
	Warning: "#D97706",
	Danger:  "#DC2626",

	Surface:       "#FFFFFF",
	SurfaceDim:    "#F5F5F5",
	SurfaceBright: "#FAFAFA",
	Overlay:       "#E5E5E5",

	Text:          "#1F2937",
	TextSecondary: "#6B7280",
	TextMuted:     "#9CA3AF",
	TextInverse:   "#FFFFFF",

	UserBubbleFg:      "#1E40AF",
	UserBubbleBorder:  "#3B82F6",
	ReplyBubbleFg:     "#5B4B8A",
	ReplyBubbleBorder: "#C4B5FD",
	SelectionBg:       "#BFDBFE",
}

// Dark is the palette for the dark theme (Catppuccin Mocha surfaces).
var Dark = Palette{
	Accent:  "#A78BFA",
	Info:    "#22D3EE",
	Success: "#22C55E",
	Warning: "#F59E0B",
	Danger:  "#EF4444",

	Surface:       "#1E1E2E",
	SurfaceDim:    "#181825",
	SurfaceBright: "#313244",
	Overlay:       "#45475A",

	Text:          "#CDD6F4",
	TextSecondary: "#A6ADC8",
	TextMuted:     "#6C7086",
	TextInverse:   "#1E1E2E",

	UserBubbleFg:      "#E0F2FE",
	UserBubbleBorder:  "#3B82F6",
	ReplyBubbleFg:     "#E9E4F5",
	ReplyBubbleBorder: "#A78BFA",
	SelectionBg:       "#1E3A5F",
}

// PaletteFor returns the palette of an applied theme.
func PaletteFor(a theme.Applied) Palette {
	if a == theme.AppliedDark {
		return Dark
	}
	return Light
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// Status indicators are ASCII shapes shown next to colored status text so the
// state is readable without color.
const (
	IndicatorSuccess = "[OK]"
	IndicatorError   = "[X]"
	IndicatorWarning = "[!]"
	IndicatorInfo    = "[i]"
	IndicatorPending = "[ ]"
)
