// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the farmdesk TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/farmdesk/internal/theme"
)

// Theme holds all the styled components for one applied theme.
type Theme struct {
	Applied theme.Applied
	Palette Palette

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarItemCurrent  lipgloss.Style
	SidebarMeta         lipgloss.Style
	SidebarFilter       lipgloss.Style
	NavItem             lipgloss.Style
	NavItemActive       lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderSpy   lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble   lipgloss.Style
	ReplyBubble  lipgloss.Style
	SystemBubble lipgloss.Style
	RoleLabel    lipgloss.Style
	Timestamp    lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
	Spinner        lipgloss.Style
	ThinkingText   lipgloss.Style

	// ==========================================================================
	// STATUS INDICATOR STYLES
	// ==========================================================================

	ErrorLine lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Muted     lipgloss.Style
}

// New creates a theme with all styles configured for a.
func New(a theme.Applied) *Theme {
	t := &Theme{Applied: a, Palette: PaletteFor(a)}
	t.initStyles()
	return t
}

// IsDark reports whether the dark palette is in use.
func (t *Theme) IsDark() bool {
	return t.Applied == theme.AppliedDark
}

func (t *Theme) initStyles() {
	p := t.Palette

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(p.Text)

	t.SidebarItemSelected = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.SelectionBg).
		Bold(true)

	t.SidebarItemCurrent = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.SidebarFilter = lipgloss.NewStyle().
		Foreground(p.Info)

	t.NavItem = lipgloss.NewStyle().
		Foreground(p.TextSecondary)

	t.NavItemActive = lipgloss.NewStyle().
		Foreground(p.Info).
		Bold(true)

	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.HeaderSpy = lipgloss.NewStyle().
		Foreground(p.Info).
		Italic(true)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(2)

	t.ReplyBubble = lipgloss.NewStyle().
		Foreground(p.ReplyBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.ReplyBubbleBorder).
		Padding(0, 1)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(p.Warning).
		Italic(true).
		Padding(0, 1)

	t.RoleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextSecondary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Info).
		Bold(true)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Background(p.SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Info).
		Background(p.SurfaceDim).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Background(p.SurfaceDim)

	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Status indicators
	t.ErrorLine = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true)

	t.Success = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)

	t.Warning = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.Info = lipgloss.NewStyle().
		Foreground(p.Info)

	t.Muted = lipgloss.NewStyle().
		Foreground(p.TextMuted)
}

// =============================================================================
// STATUS RENDERING
// =============================================================================

// RenderError renders msg with the error indicator.
func (t *Theme) RenderError(msg string) string {
	return t.ErrorLine.Render(IndicatorError + " " + msg)
}

// RenderSuccess renders msg with the success indicator.
func (t *Theme) RenderSuccess(msg string) string {
	return t.Success.Render(IndicatorSuccess + " " + msg)
}

// RenderWarning renders msg with the warning indicator.
func (t *Theme) RenderWarning(msg string) string {
	return t.Warning.Render(IndicatorWarning + " " + msg)
}

// RenderInfo renders msg with the info indicator.
func (t *Theme) RenderInfo(msg string) string {
	return t.Info.Render(IndicatorInfo + " " + msg)
}
