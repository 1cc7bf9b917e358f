// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the farmdesk TUI.

Colors come from two fixed palettes, one per applied theme, so the user's
light/dark choice wins over terminal detection. The system mode is resolved
by the theme package before a palette is picked.

# Palettes (colors.go)

  - Accent - selections, brand, assistant messages
  - Info - user messages, links, the current-message header
  - Success, Warning, Danger - status indicators
  - Surface, Overlay - backgrounds and borders
  - Text, TextMuted - body text and hints

# Theme (theme.go)

New builds every lipgloss style for an applied theme:

	t := styles.New(theme.AppliedDark)
	header := t.Header.Render("AI Chat")

# Spinners (spinner.go)

ASCII-compatible frame sets for the reply spinner.
*/
package styles
