// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable TUI components for farmdesk.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Status is the reply pipeline state shown in the status bar.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the status so it reads without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.IndicatorSuccess
	case StatusThinking:
		return styles.IndicatorPending
	case StatusError:
		return styles.IndicatorError
	default:
		return "?"
	}
}

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom bar.
type StatusBar struct {
	Status    Status
	Spinner   string
	ThemeName string
	UserName  string
	RoleLabel string
	Pinned    bool
	Notice    string
	Shortcuts []Shortcut
	Width     int

	theme *styles.Theme
}

// NewStatusBar creates a ready status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Status: StatusReady, Width: 80, theme: theme}
}

// SetTheme replaces the styles.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// View renders the bar, dropping the shortcuts and then the user on narrow
// terminals.
func (s *StatusBar) View() string {
	t := s.theme
	sep := t.StatusBar.Render(" | ")

	status := s.Status.Icon() + " " + s.Status.String()
	if s.Status == StatusThinking && s.Spinner != "" {
		status = s.Spinner + " " + s.Status.String()
	}
	statusStyle := t.StatusBar
	switch s.Status {
	case StatusError:
		statusStyle = statusStyle.Foreground(t.Palette.Danger).Bold(true)
	case StatusThinking:
		statusStyle = statusStyle.Foreground(t.Palette.Accent)
	}

	left := []string{statusStyle.Render(status)}
	if s.Notice != "" {
		left = append(left, t.StatusBar.Render(s.Notice))
	}

	right := []string{t.StatusBar.Render(s.ThemeName)}
	if s.Pinned {
		right = append(right, t.StatusBar.Render("pinned"))
	}
	if s.Width >= 60 && s.UserName != "" {
		right = append(right, t.StatusBar.Render(s.UserName+" ("+s.RoleLabel+")"))
	}
	if s.Width >= 100 && len(s.Shortcuts) > 0 {
		right = append(right, s.renderShortcuts())
	}

	l := strings.Join(left, sep)
	r := strings.Join(right, sep)
	gap := s.Width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Background(t.Palette.SurfaceDim).
		MaxWidth(s.Width).
		Render(l + t.StatusBar.Render(strings.Repeat(" ", gap)) + r)
}

func (s *StatusBar) renderShortcuts() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+s.theme.ShortcutDesc.Render(" "+sc.Desc))
	}
	return strings.Join(parts, s.theme.ShortcutDesc.Render("  "))
}

// =============================================================================
// NAV RAIL
// =============================================================================

// NavRail renders the module navigation entries on one line.
type NavRail struct {
	Active sidebar.Module
	Width  int

	theme *styles.Theme
}

// NewNavRail creates a rail.
func NewNavRail(theme *styles.Theme) *NavRail {
	return &NavRail{theme: theme, Width: 80}
}

// SetTheme replaces the styles.
func (n *NavRail) SetTheme(theme *styles.Theme) {
	n.theme = theme
}

// View renders every entry, the active one highlighted.
func (n *NavRail) View() string {
	var parts []string
	used := 0
	for _, it := range sidebar.Items() {
		label := it.Icon + " " + it.Label
		w := runewidth.StringWidth(label) + 2
		if n.Width > 0 && used+w > n.Width {
			break
		}
		used += w
		style := n.theme.NavItem
		if it.ID == n.Active {
			style = n.theme.NavItemActive
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, "  ")
}
