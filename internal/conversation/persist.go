// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
package conversation

import (
	"context"
	"time"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/storage"
)

const saveTimeout = 5 * time.Second

// chatState is the persisted form of the store. Only the conversations are
// kept; the selection and reply flags start fresh on every run.
type chatState struct {
	Conversations []*model.Conversation `json:"conversations"`
}

type snapshot struct {
	version uint64
	state   chatState
}

// snapshotLocked bumps the version and copies the collection.
// Caller holds s.mu.
func (s *Store) snapshotLocked() *snapshot {
	if s.persister == nil {
		return nil
	}
	s.version++
	convs := make([]*model.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		convs[i] = conv.Clone()
	}
	return &snapshot{version: s.version, state: chatState{Conversations: convs}}
}

// persist writes snap unless a newer snapshot was already written. Failures
// are logged; the in-memory state stays authoritative.
func (s *Store) persist(snap *snapshot) {
	if snap == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if snap.version <= s.savedVersion {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := storage.SaveJSON(ctx, s.persister, storage.KeyChat, snap.state); err != nil {
		s.logger.Error("failed to persist conversations", "error", err)
		return
	}
	s.savedVersion = snap.version
}

// Restore replaces the collection with the persisted one, if any. It is
// meant to run once, before the store is shared.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	var state chatState
	ok, err := storage.LoadJSON(ctx, s.persister, storage.KeyChat, &state)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	convs := make([]*model.Conversation, 0, len(state.Conversations))
	for _, conv := range state.Conversations {
		if conv == nil || conv.ID == "" {
			continue
		}
		if conv.Messages == nil {
			conv.Messages = make([]*model.Message, 0)
		}
		convs = append(convs, conv)
	}

	s.mu.Lock()
	s.conversations = convs
	s.mu.Unlock()

	s.logger.Info("conversations restored", "count", len(convs))
	s.notify(Event{Type: EventRestored})
	return nil
}
