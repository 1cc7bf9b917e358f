// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/logging"
	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/scrollspy"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/storage"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/user"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fixture struct {
	convs *conversation.Store
	theme *theme.Store
	nav   *sidebar.Store
	users *user.Store
	spy   scrollspy.Options
}

func newFixture(t *testing.T, responder conversation.Responder) *fixture {
	t.Helper()
	logger := logging.Discard()
	p := storage.NewMemoryStore()
	convs := conversation.NewStore(conversation.Options{
		Responder: responder,
		Persister: p,
		Logger:    logger,
	})
	t.Cleanup(convs.Close)
	return &fixture{
		convs: convs,
		theme: theme.NewStore(theme.StoreOptions{
			Persister: p,
			Detector:  func() theme.Applied { return theme.AppliedDark },
			Logger:    logger,
		}),
		nav:   sidebar.NewStore(p, logger),
		users: user.NewStore(p, logger),
	}
}

func (f *fixture) model(t *testing.T) Model {
	t.Helper()
	m, err := New(Options{
		Conversations: f.convs,
		Theme:         f.theme,
		Sidebar:       f.nav,
		User:          f.users,
		ScrollSpy:     f.spy,
		Logger:        logging.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func echoResponder(reply string) conversation.Responder {
	return conversation.ResponderFunc(func(context.Context, string, string) (string, error) {
		return reply, nil
	})
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(m Model, s string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNewRequiresStores(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestViewBeforeResize(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m, err := New(Options{Conversations: f.convs, Theme: f.theme, Sidebar: f.nav, User: f.users})
	require.NoError(t, err)
	defer m.Close()
	m.width = 0
	assert.Equal(t, "Loading...", m.View())
}

// =============================================================================
// SENDING
// =============================================================================

func TestSubmitSendsAndShowsReply(t *testing.T) {
	gate := make(chan struct{})
	f := newFixture(t, conversation.ResponderFunc(func(ctx context.Context, _ string, content string) (string, error) {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		return "Plant after the last frost.", nil
	}))
	m := f.model(t)

	m = typeText(m, "When should I plant corn?")
	m, cmd := update(m, keyMsg(tea.KeyEnter))
	assert.NotNil(t, cmd, "spinner starts")

	conv, ok := f.convs.Current()
	require.True(t, ok, "sending without a conversation creates and selects one")
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
	assert.True(t, m.Loading())
	assert.Empty(t, m.input.Value(), "input cleared")
	assert.Equal(t, sidebar.ModuleConversation, f.nav.ActiveModule())
	assert.Contains(t, m.View(), "When should I plant corn?")

	close(gate)
	f.convs.Wait()
	m, _ = update(m, StoreEventMsg{})
	assert.False(t, m.Loading())
	assert.Contains(t, m.viewport.View(), "last frost")
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)

	m = typeText(m, "   ")
	m, _ = update(m, keyMsg(tea.KeyEnter))
	assert.Equal(t, 0, f.convs.Len())
	assert.False(t, m.Loading())
}

func TestSubmitAfterCloseShowsNotice(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)
	f.convs.Close()

	m = typeText(m, "hello")
	m, _ = update(m, keyMsg(tea.KeyEnter))
	assert.Equal(t, "Store is closed", m.Notice())
	assert.Equal(t, "hello", m.input.Value(), "input kept for retry")
}

func TestReplyErrorShownInView(t *testing.T) {
	f := newFixture(t, conversation.ResponderFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("model offline")
	}))
	m := f.model(t)

	m = typeText(m, "hello")
	m, _ = update(m, keyMsg(tea.KeyEnter))
	f.convs.Wait()
	m, _ = update(m, StoreEventMsg{})

	assert.NotEmpty(t, m.errText)
	assert.Contains(t, m.View(), m.errText)
}

// =============================================================================
// CONVERSATION MANAGEMENT
// =============================================================================

func TestNewChatAndDelete(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)

	m, _ = update(m, keyMsg(tea.KeyCtrlN))
	require.Equal(t, 1, f.convs.Len())
	assert.Equal(t, sidebar.ModuleNewChat, f.nav.ActiveModule())
	first := f.convs.CurrentID()

	m, _ = update(m, keyMsg(tea.KeyCtrlN))
	require.Equal(t, 2, f.convs.Len())
	assert.NotEqual(t, first, f.convs.CurrentID())

	m, _ = update(m, keyMsg(tea.KeyCtrlX))
	assert.Equal(t, 1, f.convs.Len())
	assert.Equal(t, first, f.convs.CurrentID())
	assert.True(t, strings.HasPrefix(m.Notice(), "Deleted "))
}

func TestHistorySelection(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	older := f.convs.CreateConversation()
	newer := f.convs.CreateConversation()
	m := f.model(t)
	require.Equal(t, newer.ID, f.convs.CurrentID())

	m, _ = update(m, keyMsg(tea.KeyTab))
	assert.Equal(t, focusHistory, m.focus)
	assert.True(t, f.nav.Hovering())
	assert.True(t, m.historyVisible())

	m, _ = update(m, keyMsg(tea.KeyDown))
	m, _ = update(m, keyMsg(tea.KeyEnter))
	assert.Equal(t, older.ID, f.convs.CurrentID())
	assert.Equal(t, focusInput, m.focus)
	assert.False(t, f.nav.Hovering())
	assert.Equal(t, sidebar.ModuleConversation, f.nav.ActiveModule())
}

func TestHistoryFilter(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	a := f.convs.CreateConversation()
	_, err := f.convs.SendMessage(a.ID, "Tractor maintenance")
	require.NoError(t, err)
	b := f.convs.CreateConversation()
	_, err = f.convs.SendMessage(b.ID, "Irrigation budget")
	require.NoError(t, err)
	f.convs.Wait()
	m := f.model(t)

	m, _ = update(m, keyMsg(tea.KeyTab))
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.Equal(t, focusFilter, m.focus)

	m = typeText(m, "tract")
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, a.ID, m.list.SelectedID())

	m, _ = update(m, keyMsg(tea.KeyEsc))
	assert.Equal(t, focusHistory, m.focus)
	assert.Len(t, m.list.Items(), 2)
}

// =============================================================================
// THEME, PIN AND CLIPBOARD
// =============================================================================

func TestCycleTheme(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)
	before := f.theme.Theme()

	m, cmd := update(m, keyMsg(tea.KeyCtrlT))
	assert.NotEqual(t, before, f.theme.Theme())
	assert.Equal(t, f.theme.Applied(), m.styles.Applied)
	assert.Equal(t, "Theme: "+theme.Label(f.theme.Theme()), m.Notice())
	assert.NotNil(t, cmd)
}

func TestTogglePin(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)

	m, _ = update(m, keyMsg(tea.KeyCtrlB))
	assert.True(t, f.nav.Pinned())
	assert.True(t, m.historyVisible())
	assert.Equal(t, "History pinned", m.Notice())

	m, _ = update(m, keyMsg(tea.KeyCtrlB))
	assert.False(t, f.nav.Pinned())
	assert.Equal(t, "History unpinned", m.Notice())
}

func TestCopyLastReply(t *testing.T) {
	var copied string
	orig := clipboardWriter
	clipboardWriter = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWriter = orig })

	f := newFixture(t, echoResponder("Use 30-inch rows."))
	m := f.model(t)

	m, _ = update(m, keyMsg(tea.KeyCtrlY))
	assert.Equal(t, "No conversation to copy from", m.Notice())

	m = typeText(m, "Row spacing?")
	m, _ = update(m, keyMsg(tea.KeyEnter))
	f.convs.Wait()
	m, _ = update(m, StoreEventMsg{})

	m, cmd := update(m, keyMsg(tea.KeyCtrlY))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, CopyResultMsg{}, msg)
	assert.Equal(t, "Use 30-inch rows.", copied)

	m, _ = update(m, msg)
	assert.Equal(t, "Copied reply (17 chars)", m.Notice())
}

func TestCopyFailureNotice(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)
	m, _ = update(m, CopyResultMsg{Err: errors.New("no clipboard")})
	assert.Equal(t, "Copy failed: no clipboard", m.Notice())
}

func TestNoticeClearsOnlyLatest(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	m := f.model(t)

	m, _ = update(m, keyMsg(tea.KeyCtrlB))
	m, _ = update(m, keyMsg(tea.KeyCtrlB))
	m, _ = update(m, clearNoticeMsg{seq: m.noticeSeq - 1})
	assert.NotEmpty(t, m.Notice(), "stale clear ignored")
	m, _ = update(m, clearNoticeMsg{seq: m.noticeSeq})
	assert.Empty(t, m.Notice())
}

// =============================================================================
// CURRENT MESSAGE
// =============================================================================

func TestCurrentMessageFollowsScroll(t *testing.T) {
	long := strings.Repeat("Check soil moisture before watering.\n\n", 20)
	f := newFixture(t, echoResponder(long))
	// The whole viewport is the band, so the topmost user message wins.
	f.spy = scrollspy.Options{RootMargin: "0px"}

	id, err := f.convs.SendMessage("", "first question")
	require.NoError(t, err)
	f.convs.SetCurrentConversation(id)
	f.convs.Wait()
	_, err = f.convs.SendMessage(id, "second question")
	require.NoError(t, err)
	f.convs.Wait()

	m := f.model(t)
	m, _ = update(m, StoreEventMsg{})
	conv, ok := f.convs.Current()
	require.True(t, ok)
	require.Len(t, conv.Messages, 4)

	m, _ = update(m, keyMsg(tea.KeyCtrlHome))
	gotID, snippet := m.CurrentMessage()
	assert.Equal(t, conv.Messages[0].ID, gotID)
	assert.Equal(t, "first question", snippet)
	assert.Contains(t, m.View(), "Viewing: first question")

	spans := m.render.spans
	require.Len(t, spans, 4)
	assert.Less(t, spans[conv.Messages[0].ID].End, spans[conv.Messages[2].ID].Start)
}

func TestSwitchingConversationUnobservesOldMessages(t *testing.T) {
	f := newFixture(t, echoResponder("ok"))
	a, err := f.convs.SendMessage("", "alpha")
	require.NoError(t, err)
	f.convs.SetCurrentConversation(a)
	f.convs.Wait()
	m := f.model(t)
	require.Len(t, m.render.observed, 2)

	f.convs.CreateConversation()
	m, _ = update(m, StoreEventMsg{})
	assert.Empty(t, m.render.observed)
}

// =============================================================================
// HELPERS
// =============================================================================

func TestWaitForEventStopsOnClose(t *testing.T) {
	ch := make(chan conversation.Event, 1)
	ch <- conversation.Event{Type: conversation.EventReplyFinished}
	cmd := waitForEvent(ch)
	assert.IsType(t, StoreEventMsg{}, cmd())

	close(ch)
	assert.Nil(t, cmd())
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "532 chars", formatSize(532))
	assert.Equal(t, "1.2K chars", formatSize(1234))
}

func TestShortcutsFromKeyMap(t *testing.T) {
	sc := DefaultKeyMap().Shortcuts()
	require.NotEmpty(t, sc)
	assert.Equal(t, "Tab", sc[0].Key)
}
