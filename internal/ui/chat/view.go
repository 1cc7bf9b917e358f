// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the terminal chat view for farmdesk.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/router"
	"github.com/jeranaias/farmdesk/internal/scrollspy"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/ui/components"
	"github.com/jeranaias/farmdesk/internal/ui/styles"
)

// Fixed rows around the viewport: nav rail, header (title and border),
// input (border and line) and status bar.
const chromeHeight = 6

// minWrapWidth keeps replies readable on very narrow terminals.
const minWrapWidth = 20

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat interface.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var main []string
	main = append(main, m.renderHeader(), m.viewport.View())
	if m.errText != "" {
		main = append(main, m.styles.RenderError(components.FitWidth(m.errText, m.contentWidth()-2)))
	}
	main = append(main, m.renderInput())
	body := lipgloss.JoinVertical(lipgloss.Left, main...)

	if m.historyVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderHistory(), body)
	}

	m.status.Notice = m.notice
	m.status.Spinner = m.spinner.View()
	return lipgloss.JoinVertical(lipgloss.Left, m.rail.View(), body, m.status.View())
}

func (m Model) renderHeader() string {
	width := m.contentWidth()
	title := router.AppTitle
	if conv, ok := m.convs.Current(); ok {
		title = conv.GetTitle()
	}
	line := m.styles.HeaderTitle.Render(components.FitWidth(title, width/2))

	// The correlator may still hold a message from a conversation that is no
	// longer shown; only label messages of the current one.
	if id, snippet := m.spy.Current(); id != "" {
		if conv, ok := m.convs.Current(); ok && conv.MessageByID(id) != nil {
			room := width - lipgloss.Width(line) - 4
			if room > 10 {
				line += "  " + m.styles.HeaderSpy.Render(components.FitWidth("Viewing: "+snippet, room))
			}
		}
	}
	return m.styles.Header.Width(width).Render(line)
}

func (m Model) renderInput() string {
	if m.focus == focusFilter {
		return m.styles.InputContainer.Width(m.contentWidth()).Render(m.filter.View())
	}
	return m.styles.InputContainer.Width(m.contentWidth()).Render(m.input.View())
}

func (m Model) renderHistory() string {
	list := m.list.View(m.focus != focusInput)
	if m.focus == focusFilter {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.SidebarFilter.Render(components.FitWidth("/ "+m.filter.Value(), m.sidebarWidth)),
			list,
		)
	}
	return list
}

// =============================================================================
// STATE SYNC
// =============================================================================

// refresh pulls store state into the components and redraws the content.
func (m *Model) refresh() {
	m.loading = m.convs.IsLoading()
	m.errText = m.convs.Error()
	if !m.loading {
		m.spinning = false
	}

	m.list.SetConversations(m.convs.Conversations(), m.dateStyle)
	m.list.SetCurrent(m.convs.CurrentID())

	m.rail.Active = m.nav.ActiveModule()

	m.status.Status = components.StatusReady
	switch {
	case m.loading:
		m.status.Status = components.StatusThinking
	case m.errText != "":
		m.status.Status = components.StatusError
	}
	m.status.ThemeName = theme.Icon(m.theme.Theme()) + " " + theme.Label(m.theme.Theme())
	m.status.UserName = m.users.UserName()
	m.status.RoleLabel = m.users.RoleLabel()
	m.status.Pinned = m.nav.Pinned()

	m.layout()
	m.rebuildContent()
}

// layout sizes every component for the terminal.
func (m *Model) layout() {
	width := m.contentWidth()
	height := m.height - chromeHeight
	if m.errText != "" {
		height--
	}
	if height < 1 {
		height = 1
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.input.Width = max(width-6, 1)
	m.filter.Width = max(m.sidebarWidth-4, 1)

	m.list.Width = m.sidebarWidth
	m.list.Height = max(m.height-2, 3)
	m.status.Width = m.width
	m.rail.Width = m.width

	if wrap := m.wrapWidth(); wrap != m.render.wrap {
		m.render.wrap = wrap
		m.formatter.SetStyle(m.theme.GlamourStyle(), wrap)
		clear(m.render.cache)
	}
}

func (m Model) contentWidth() int {
	w := m.width
	if m.historyVisible() {
		w -= m.sidebarWidth
	}
	return max(w, 1)
}

// wrapWidth is the text width inside a message bubble: border, padding and
// the user bubble margin take six columns.
func (m Model) wrapWidth() int {
	return max(m.contentWidth()-6, minWrapWidth)
}

// rebuildContent renders the current conversation into the viewport,
// records the line span of each message and keeps the correlator observing
// exactly the messages on screen.
func (m *Model) rebuildContent() {
	atBottom := m.viewport.AtBottom()
	rs := m.render

	conv, ok := m.convs.Current()
	if !ok || len(conv.Messages) == 0 {
		m.observe(nil)
		rs.spans = map[string]scrollspy.Span{}
		m.viewport.SetContent(m.styles.Muted.Render("Start a conversation: type a message and press Enter."))
		m.syncSpy()
		return
	}

	blocks := make([]string, 0, len(conv.Messages)+1)
	spans := make(map[string]scrollspy.Span, len(conv.Messages))
	line := 0
	for _, msg := range conv.Messages {
		key := fmt.Sprintf("%s|%s|%d", msg.ID, m.styles.Applied, rs.wrap)
		block, cached := rs.cache[key]
		if !cached {
			block = m.renderMessage(msg)
			rs.cache[key] = block
		}
		h := lipgloss.Height(block)
		spans[msg.ID] = scrollspy.Span{Start: line, End: line + h}
		line += h + 1
		blocks = append(blocks, block)
	}
	if m.convs.Status(conv.ID).Loading() {
		blocks = append(blocks, m.spinner.View()+" "+m.styles.ThinkingText.Render(styles.ThinkingText))
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}

	m.observe(conv.Messages)
	rs.spans = spans
	if obs, ok := m.spy.Observer().(*scrollspy.ViewportObserver); ok {
		obs.SetLayout(spans)
	}
	m.syncSpy()
}

// observe makes msgs the observed set, unobserving everything else.
func (m *Model) observe(msgs []*model.Message) {
	rs := m.render
	keep := make(map[string]bool, len(msgs))
	for _, msg := range msgs {
		keep[msg.ID] = true
	}
	for id, el := range rs.observed {
		if !keep[id] {
			m.spy.Unobserve(el)
			delete(rs.observed, id)
		}
	}
	for _, msg := range msgs {
		if _, ok := rs.observed[msg.ID]; ok {
			continue
		}
		el := scrollspy.ElementFor(msg)
		rs.observed[msg.ID] = el
		m.spy.Observe(el)
	}
}

// syncSpy reports the visible window to the observer.
func (m *Model) syncSpy() {
	if obs, ok := m.spy.Observer().(*scrollspy.ViewportObserver); ok {
		obs.Scroll(m.viewport.YOffset, m.viewport.Height)
	}
}

// renderMessage draws one message: a label line and its bubble.
func (m Model) renderMessage(msg *model.Message) string {
	label := m.styles.RoleLabel.Render(msg.Role.DisplayName())
	if !msg.Timestamp.IsZero() {
		label += " " + m.styles.Timestamp.Render(render.FormatDate(msg.Timestamp, m.dateStyle))
	}

	var bubble string
	switch msg.Role {
	case model.RoleUser:
		bubble = m.styles.UserBubble.Render(components.WrapText(msg.Content, m.render.wrap))
	case model.RoleAssistant:
		bubble = m.styles.ReplyBubble.Render(m.formatter.Render(msg.Content))
	default:
		bubble = m.styles.SystemBubble.Render(components.WrapText(msg.Content, m.render.wrap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}
