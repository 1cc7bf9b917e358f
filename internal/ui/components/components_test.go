// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/ui/styles"
)

// =============================================================================
// TEXT HELPERS
// =============================================================================

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "abc", 5, "abc"},
		{"cut", "abcdefgh", 5, "abcd…"},
		{"zero width", "abc", 0, ""},
		{"wide runes", "玉米播种计划", 7, "玉米播…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitWidth(tt.in, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, runewidth.StringWidth(got), max(tt.width, 0))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, 6, runewidth.StringWidth(PadRight("玉米播种计划", 6)))
}

func TestWrapText(t *testing.T) {
	got := WrapText("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 10, line)
	}
	assert.Equal(t, "the quick brown fox jumps", strings.Join(strings.Fields(got), " "))

	assert.Equal(t, "abcde\nfghij", WrapText("abcdefghij", 5), "long words hard-break")
	assert.Equal(t, "a\nb", WrapText("a\nb", 10), "line breaks kept")
	assert.Equal(t, "same", WrapText("same", 0))
}

// =============================================================================
// CONVERSATION LIST
// =============================================================================

func testConversations() []*model.Conversation {
	titles := []string{"Corn planting schedule", "Tractor maintenance", "Irrigation budget"}
	out := make([]*model.Conversation, 0, len(titles))
	for _, title := range titles {
		c := model.NewConversation()
		c.Title = title
		c.AddMessage(model.NewUserMessage(title + " details"))
		out = append(out, c)
	}
	return out
}

func TestConversationListCursor(t *testing.T) {
	l := NewConversationList(styles.New(theme.AppliedLight))
	convs := testConversations()
	l.SetConversations(convs, render.DateShort)

	require.Len(t, l.Items(), 3)
	assert.Equal(t, convs[0].ID, l.SelectedID())

	l.Up()
	assert.Equal(t, convs[0].ID, l.SelectedID(), "cursor stops at top")
	l.Down()
	l.Down()
	l.Down()
	assert.Equal(t, convs[2].ID, l.SelectedID(), "cursor stops at bottom")

	l.SetConversations(convs, render.DateShort)
	assert.Equal(t, convs[2].ID, l.SelectedID(), "selection survives refresh")
	assert.Equal(t, "Irrigation budget details", l.Items()[2].Preview)
}

func TestConversationListFilter(t *testing.T) {
	l := NewConversationList(styles.New(theme.AppliedDark))
	convs := testConversations()
	l.SetConversations(convs, render.DateShort)

	l.SetFilter("tract")
	require.Len(t, l.Items(), 1)
	assert.Equal(t, convs[1].ID, l.SelectedID())
	assert.Equal(t, "tract", l.Filter())

	l.SetFilter("zzz")
	assert.Empty(t, l.Items())
	assert.Empty(t, l.SelectedID())
	assert.Contains(t, l.View(true), "No matches")

	l.SetFilter("")
	assert.Len(t, l.Items(), 3)
}

func TestConversationListView(t *testing.T) {
	l := NewConversationList(styles.New(theme.AppliedLight))
	assert.Contains(t, l.View(false), "No conversations yet")

	convs := testConversations()
	l.SetConversations(convs, render.DateShort)
	l.SetCurrent(convs[1].ID)
	l.Width = 20
	out := l.View(true)
	assert.Contains(t, out, "> Tractor")
	assert.Contains(t, out, "Corn")
}

// =============================================================================
// STATUS BAR AND NAV RAIL
// =============================================================================

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Ready", StatusReady.String())
	assert.Equal(t, "Thinking...", StatusThinking.String())
	assert.Equal(t, "Error", StatusError.String())
	assert.Equal(t, "Unknown", Status(99).String())
	assert.Equal(t, styles.IndicatorError, StatusError.Icon())
}

func TestStatusBarView(t *testing.T) {
	s := NewStatusBar(styles.New(theme.AppliedLight))
	s.Width = 120
	s.ThemeName = "System"
	s.UserName = "Zhang San"
	s.RoleLabel = "Administrator"
	s.Pinned = true
	s.Shortcuts = []Shortcut{{Key: "^T", Desc: "theme"}}

	out := s.View()
	assert.Contains(t, out, "Ready")
	assert.Contains(t, out, "System")
	assert.Contains(t, out, "Zhang San (Administrator)")
	assert.Contains(t, out, "pinned")
	assert.Contains(t, out, "theme")

	s.Width = 40
	s.Status = StatusThinking
	s.Spinner = "|"
	out = s.View()
	assert.Contains(t, out, "| Thinking...")
	assert.NotContains(t, out, "Zhang San")
}

func TestNavRailView(t *testing.T) {
	n := NewNavRail(styles.New(theme.AppliedDark))
	n.Active = sidebar.ModuleKnowledge
	n.Width = 200

	out := n.View()
	for _, it := range sidebar.Items() {
		assert.Contains(t, out, it.Label)
	}

	n.Width = 12
	assert.NotContains(t, n.View(), "E-Forms")
}
