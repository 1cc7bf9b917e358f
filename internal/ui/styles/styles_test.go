// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/farmdesk/internal/theme"
)

// =============================================================================
// PALETTE TESTS
// =============================================================================

func TestPaletteFor(t *testing.T) {
	tests := []struct {
		applied theme.Applied
		want    Palette
	}{
		{theme.AppliedDark, Dark},
		{theme.AppliedLight, Light},
		{"", Light},
	}
	for _, tt := range tests {
		if got := PaletteFor(tt.applied); got != tt.want {
			t.Errorf("PaletteFor(%q) returned the wrong palette", tt.applied)
		}
	}
}

func TestPalettesDiffer(t *testing.T) {
	if Light.Surface == Dark.Surface {
		t.Error("light and dark surfaces should differ")
	}
	if Light.Text == Dark.Text {
		t.Error("light and dark text should differ")
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	for _, a := range []theme.Applied{theme.AppliedLight, theme.AppliedDark} {
		th := New(a)
		if th.Applied != a {
			t.Errorf("Applied = %q, want %q", th.Applied, a)
		}
		if th.IsDark() != (a == theme.AppliedDark) {
			t.Errorf("IsDark() = %v for %q", th.IsDark(), a)
		}

		styles := []struct {
			name  string
			style lipgloss.Style
		}{
			{"Sidebar", th.Sidebar},
			{"Header", th.Header},
			{"UserBubble", th.UserBubble},
			{"ReplyBubble", th.ReplyBubble},
			{"InputContainer", th.InputContainer},
			{"StatusBar", th.StatusBar},
			{"ErrorLine", th.ErrorLine},
		}
		for _, s := range styles {
			if s.style.Render("test") == "" {
				t.Errorf("%s style should render", s.name)
			}
		}
	}
}

func TestThemeUsesPaletteColors(t *testing.T) {
	th := New(theme.AppliedDark)
	if got := th.HeaderTitle.GetForeground(); got != Dark.Accent {
		t.Errorf("HeaderTitle foreground = %v, want %v", got, Dark.Accent)
	}
	if got := th.ErrorLine.GetForeground(); got != Dark.Danger {
		t.Errorf("ErrorLine foreground = %v, want %v", got, Dark.Danger)
	}
}

func TestStatusRendering(t *testing.T) {
	th := New(theme.AppliedLight)
	tests := []struct {
		name   string
		render func(string) string
		prefix string
	}{
		{"error", th.RenderError, IndicatorError},
		{"success", th.RenderSuccess, IndicatorSuccess},
		{"warning", th.RenderWarning, IndicatorWarning},
		{"info", th.RenderInfo, IndicatorInfo},
	}
	for _, tt := range tests {
		out := tt.render("hello")
		if !strings.Contains(out, tt.prefix) || !strings.Contains(out, "hello") {
			t.Errorf("%s: got %q", tt.name, out)
		}
	}
}

func TestSpinnerFrames(t *testing.T) {
	for name, s := range map[string][]string{"line": LineSpinner.Frames, "dots": DotsSpinner.Frames} {
		if len(s) < 2 {
			t.Errorf("%s spinner needs at least two frames", name)
		}
	}
	if DotsSpinner.FPS <= 0 {
		t.Error("DotsSpinner FPS must be positive")
	}
}
