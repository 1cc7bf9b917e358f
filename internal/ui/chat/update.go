// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the terminal chat view for farmdesk.
package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/ui/styles"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		return m, nil

	case StoreEventMsg:
		m.refresh()
		cmds := []tea.Cmd{waitForEvent(m.events)}
		if m.loading && !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CopyResultMsg:
		if msg.Err != nil {
			m.logger.Warn("clipboard write failed", "error", msg.Err)
			return m.setNotice("Copy failed: " + msg.Err.Error())
		}
		return m.setNotice("Copied reply (" + formatSize(msg.Chars) + ")")

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.syncSpy()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys work in every focus.
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	case key.Matches(msg, m.keys.TogglePin):
		pinned := m.nav.TogglePin()
		m.refresh()
		if pinned {
			return m.setNotice("History pinned")
		}
		return m.setNotice("History unpinned")
	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		m.syncSpy()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		m.syncSpy()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.syncSpy()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.syncSpy()
		return m, nil
	}

	switch m.focus {
	case focusHistory:
		return m.handleHistoryKey(msg)
	case focusFilter:
		return m.handleFilterKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(focusHistory)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteConversation(m.convs.CurrentID())
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		m.syncSpy()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		m.syncSpy()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Cancel):
		if m.list.Filter() != "" {
			m.filter.Reset()
			m.list.SetFilter("")
			return m, nil
		}
		m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Filter):
		m.setFocus(focusFilter)
	case key.Matches(msg, m.keys.Up), msg.String() == "k":
		m.list.Up()
	case key.Matches(msg, m.keys.Down), msg.String() == "j":
		m.list.Down()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteConversation(m.list.SelectedID())
	case key.Matches(msg, m.keys.Submit):
		if id := m.list.SelectedID(); id != "" {
			m.convs.SetCurrentConversation(id)
			m.setActiveModule(sidebar.ModuleConversation)
			m.setFocus(focusInput)
			m.viewport.GotoBottom()
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.filter.Reset()
		m.list.SetFilter("")
		m.setFocus(focusHistory)
		return m, nil
	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Focus):
		m.setFocus(focusHistory)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.list.SetFilter(m.filter.Value())
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit sends the input through the store. The user message is drawn on
// the next store event; the reply follows later.
func (m Model) submit() (tea.Model, tea.Cmd) {
	content := m.input.Value()
	if strings.TrimSpace(content) == "" {
		return m, nil
	}

	current := m.convs.CurrentID()
	if _, ok := m.convs.Conversation(current); !ok {
		current = ""
	}
	_, err := m.convs.SendMessage(current, content)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrConversationNotFound):
			return m.setNotice("Conversation no longer exists")
		case errors.Is(err, conversation.ErrClosed):
			return m.setNotice("Store is closed")
		}
		return m.setNotice("Send failed: " + err.Error())
	}
	if current == "" {
		m.setActiveModule(sidebar.ModuleConversation)
	}

	m.input.Reset()
	m.viewport.GotoBottom()
	m.refresh()

	if m.loading && !m.spinning {
		m.spinning = true
		return m, m.spinner.Tick
	}
	return m, nil
}

func (m Model) newChat() (tea.Model, tea.Cmd) {
	m.convs.CreateConversation()
	m.setActiveModule(sidebar.ModuleNewChat)
	m.setFocus(focusInput)
	m.refresh()
	return m, nil
}

func (m Model) deleteConversation(id string) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	conv, ok := m.convs.Conversation(id)
	if !ok {
		return m, nil
	}
	m.convs.DeleteConversation(id)
	m.refresh()
	return m.setNotice("Deleted " + conv.GetTitle())
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	mode := m.theme.Cycle()
	m.applyTheme()
	m.refresh()
	return m.setNotice("Theme: " + theme.Label(mode))
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	conv, ok := m.convs.Current()
	if !ok {
		return m.setNotice("No conversation to copy from")
	}
	last := conv.LastAssistantMessage()
	if last == nil || last.Content == "" {
		return m.setNotice("No reply to copy")
	}
	return m, copyCmd(last.Content)
}

// setNotice shows text in the status bar until NoticeDuration passes or a
// newer notice replaces it.
func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	return m, clearNoticeAfter(m.noticeSeq)
}

// =============================================================================
// STATE HELPERS
// =============================================================================

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.input.Blur()
	m.filter.Blur()
	switch f {
	case focusInput:
		m.input.Focus()
	case focusFilter:
		m.filter.Focus()
	}
	// Focusing the history counts as hovering the rail.
	m.nav.SetHovering(f != focusInput)
	m.refresh()
}

func (m *Model) setActiveModule(mod sidebar.Module) {
	if err := m.nav.SetActiveModule(mod); err != nil {
		m.logger.Debug("set active module", "module", mod, "error", err)
	}
}

func (m *Model) applyTheme() {
	m.styles = styles.New(m.theme.Applied())
	m.list.SetTheme(m.styles)
	m.status.SetTheme(m.styles)
	m.rail.SetTheme(m.styles)
	m.input.PromptStyle = m.styles.InputPrompt
	m.input.PlaceholderStyle = m.styles.Placeholder
	m.spinner.Style = m.styles.Spinner
	m.formatter.SetStyle(m.theme.GlamourStyle(), m.wrapWidth())
	clear(m.render.cache)
}
