// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable TUI components for farmdesk.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/ui/styles"
)

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// ConversationItem is one row of the list.
type ConversationItem struct {
	ID      string
	Title   string
	Preview string
	Updated string
}

type itemTitles []ConversationItem

func (t itemTitles) String(i int) string { return t[i].Title }
func (t itemTitles) Len() int            { return len(t) }

// ConversationList is the conversation sidebar: a cursor over the rows that
// match the filter, with the selected conversation marked.
type ConversationList struct {
	all     []ConversationItem
	visible []ConversationItem

	filter    string
	cursor    int
	currentID string

	Width  int
	Height int
	theme  *styles.Theme
}

// NewConversationList creates an empty list.
func NewConversationList(theme *styles.Theme) *ConversationList {
	return &ConversationList{theme: theme, Width: 28, Height: 10}
}

// SetTheme replaces the styles.
func (l *ConversationList) SetTheme(theme *styles.Theme) {
	l.theme = theme
}

// SetConversations replaces the rows, keeping the cursor on the same ID when
// it is still visible.
func (l *ConversationList) SetConversations(convs []*model.Conversation, dateStyle render.DateStyle) {
	selected := l.SelectedID()
	l.all = make([]ConversationItem, 0, len(convs))
	for _, c := range convs {
		item := ConversationItem{
			ID:      c.ID,
			Title:   c.GetTitle(),
			Updated: render.FormatDate(c.UpdatedAt, dateStyle),
		}
		if last := c.LastMessage(); last != nil {
			item.Preview = last.Preview(render.SnippetLength)
		}
		l.all = append(l.all, item)
	}
	l.apply(selected)
}

// SetCurrent marks id as the conversation shown in the viewport.
func (l *ConversationList) SetCurrent(id string) {
	l.currentID = id
}

// SetFilter narrows the rows to fuzzy title matches, best first. An empty
// filter shows every row in store order.
func (l *ConversationList) SetFilter(filter string) {
	l.filter = strings.TrimSpace(filter)
	l.apply(l.SelectedID())
}

// Filter returns the active filter.
func (l *ConversationList) Filter() string {
	return l.filter
}

func (l *ConversationList) apply(keepID string) {
	if l.filter == "" {
		l.visible = l.all
	} else {
		matches := fuzzy.FindFrom(l.filter, itemTitles(l.all))
		l.visible = make([]ConversationItem, 0, len(matches))
		for _, m := range matches {
			l.visible = append(l.visible, l.all[m.Index])
		}
	}

	l.cursor = 0
	for i, it := range l.visible {
		if it.ID == keepID {
			l.cursor = i
			break
		}
	}
}

// Items returns the visible rows.
func (l *ConversationList) Items() []ConversationItem {
	return l.visible
}

// Up moves the cursor up, stopping at the first row.
func (l *ConversationList) Up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Down moves the cursor down, stopping at the last row.
func (l *ConversationList) Down() {
	if l.cursor < len(l.visible)-1 {
		l.cursor++
	}
}

// SelectedID returns the ID under the cursor, or "" when the list is empty.
func (l *ConversationList) SelectedID() string {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return ""
	}
	return l.visible[l.cursor].ID
}

// View renders the list.
func (l *ConversationList) View(focused bool) string {
	t := l.theme
	inner := l.Width - 2
	if inner < 4 {
		inner = 4
	}

	var lines []string
	title := "History"
	if l.filter != "" {
		title = "Filter: " + l.filter
	}
	lines = append(lines, t.SidebarTitle.Render(FitWidth(title, inner)))

	if len(l.visible) == 0 {
		msg := "No conversations yet"
		if l.filter != "" {
			msg = "No matches"
		}
		lines = append(lines, t.SidebarMeta.Render(FitWidth(msg, inner)))
	}

	rows := (l.Height - 1) / 2
	if rows < 1 {
		rows = 1
	}
	start := 0
	if l.cursor >= rows {
		start = l.cursor - rows + 1
	}
	for i := start; i < len(l.visible) && i < start+rows; i++ {
		it := l.visible[i]
		marker := "  "
		if it.ID == l.currentID {
			marker = "> "
		}
		style := t.SidebarItem
		switch {
		case focused && i == l.cursor:
			style = t.SidebarItemSelected
		case it.ID == l.currentID:
			style = t.SidebarItemCurrent
		}
		lines = append(lines,
			style.Render(PadRight(marker+it.Title, inner)),
			t.SidebarMeta.Render(FitWidth("  "+it.Updated, inner)),
		)
	}

	return t.Sidebar.Width(l.Width).Height(l.Height).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
