// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the terminal chat view for farmdesk.
package chat

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/farmdesk/internal/conversation"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StoreEventMsg carries a conversation store event into Update.
type StoreEventMsg struct {
	Event conversation.Event
}

// CopyResultMsg reports a clipboard write.
type CopyResultMsg struct {
	Chars int
	Err   error
}

// clearNoticeMsg hides the notice set with the same sequence number.
type clearNoticeMsg struct {
	seq int
}

// NoticeDuration is how long a status bar notice stays up.
const NoticeDuration = 3 * time.Second

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// waitForEvent blocks until the store emits an event. It returns nil once
// the queue is closed, which ends the loop.
func waitForEvent(events <-chan conversation.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return StoreEventMsg{Event: ev}
	}
}

// clipboardWriter is swapped in tests.
var clipboardWriter = clipboard.WriteAll

// copyCmd writes text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWriter(text); err != nil {
			return CopyResultMsg{Err: err}
		}
		return CopyResultMsg{Chars: len([]rune(text))}
	}
}

func clearNoticeAfter(seq int) tea.Cmd {
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// formatSize describes a character count, e.g. "532 chars" or "1.2K chars".
func formatSize(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d chars", n)
	}
	return fmt.Sprintf("%.1fK chars", float64(n)/1000)
}
