// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// TITLE TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "hello", "hello"},
		{"exactly thirty", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"thirty one", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"long sentence", "How do I rotate crops between two fields each season?", "How do I rotate crops between ..."},
		{"multibyte", strings.Repeat("稻", 35), strings.Repeat("稻", 30) + "..."},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.content); got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestConversation_GetTitle(t *testing.T) {
	conv := NewConversation()
	if conv.GetTitle() != DefaultTitle {
		t.Errorf("GetTitle() = %q, want %q", conv.GetTitle(), DefaultTitle)
	}

	conv.Title = ""
	if conv.GetTitle() != DefaultTitle {
		t.Errorf("GetTitle() with empty title = %q, want default", conv.GetTitle())
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation(t *testing.T) {
	conv := NewConversation()

	if !strings.HasPrefix(conv.ID, "conv_") {
		t.Errorf("ID should start with 'conv_', got %q", conv.ID)
	}
	if !conv.IsEmpty() {
		t.Error("new conversation should be empty")
	}
	if conv.CreatedAt.IsZero() || !conv.UpdatedAt.Equal(conv.CreatedAt) {
		t.Error("CreatedAt and UpdatedAt should be set to the same instant")
	}

	other := NewConversation()
	if other.ID == conv.ID {
		t.Error("conversation IDs should be unique")
	}
}

func TestConversation_AddMessage(t *testing.T) {
	conv := NewConversation()
	before := conv.UpdatedAt
	time.Sleep(time.Millisecond)

	first := NewUserMessage("first")
	second := NewAssistantMessage("second")
	conv.AddMessage(first)
	conv.AddMessage(second)

	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount() = %d, want 2", conv.MessageCount())
	}
	if conv.Messages[0] != first || conv.Messages[1] != second {
		t.Error("messages should keep write order")
	}
	if !conv.UpdatedAt.After(before) {
		t.Error("AddMessage should refresh UpdatedAt")
	}
	if conv.LastMessage() != second {
		t.Error("LastMessage should return the newest message")
	}
	if conv.LastAssistantMessage() != second {
		t.Error("LastAssistantMessage should return the reply")
	}
	if got := conv.UserMessages(); len(got) != 1 || got[0] != first {
		t.Errorf("UserMessages() = %v, want only the first message", got)
	}
	if conv.MessageByID(first.ID) != first {
		t.Error("MessageByID should find the first message")
	}
	if conv.MessageByID("missing") != nil {
		t.Error("MessageByID should return nil for unknown IDs")
	}
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage("original"))

	clone := conv.Clone()
	clone.Messages[0].Content = "changed"
	clone.Title = "changed"

	if conv.Messages[0].Content != "original" {
		t.Error("mutating the clone should not affect the original message")
	}
	if conv.Title == "changed" {
		t.Error("mutating the clone should not affect the original title")
	}
}

func TestConversation_Preview(t *testing.T) {
	conv := NewConversation()
	if conv.Preview(10) != "Empty conversation" {
		t.Errorf("Preview() = %q, want %q", conv.Preview(10), "Empty conversation")
	}

	conv.AddMessage(NewUserMessage("line one\nline two"))
	if got := conv.Preview(8); got != "line one..." {
		t.Errorf("Preview(8) = %q, want %q", got, "line one...")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessageIDs(t *testing.T) {
	user := NewUserMessage("hi")
	reply := NewAssistantMessage("hello")

	if !strings.HasPrefix(user.ID, "msg_") {
		t.Errorf("user message ID = %q, want msg_ prefix", user.ID)
	}
	if !strings.HasSuffix(reply.ID, "_ai") {
		t.Errorf("assistant message ID = %q, want _ai suffix", reply.ID)
	}
	if user.Role != RoleUser || reply.Role != RoleAssistant {
		t.Error("constructors should set the matching role")
	}
	if user.IsStreaming || reply.IsStreaming {
		t.Error("messages should not be marked streaming")
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		role    Role
		valid   bool
		display string
	}{
		{RoleUser, true, "You"},
		{RoleAssistant, true, "Assistant"},
		{RoleSystem, true, "System"},
		{Role("tool"), false, "tool"},
	}

	for _, tc := range tests {
		t.Run(tc.role.String(), func(t *testing.T) {
			if tc.role.Valid() != tc.valid {
				t.Errorf("Valid() = %v, want %v", tc.role.Valid(), tc.valid)
			}
			if tc.role.DisplayName() != tc.display {
				t.Errorf("DisplayName() = %q, want %q", tc.role.DisplayName(), tc.display)
			}
		})
	}
}
