// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sidebar holds the navigation rail state: the active module, and
// whether the secondary panel is shown because it is pinned or hovered.
package sidebar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jeranaias/farmdesk/internal/storage"
)

// Module identifies a navigation entry.
type Module string

const (
	ModuleNewChat      Module = "new-chat"
	ModuleConversation Module = "conversation"
	ModuleKnowledge    Module = "knowledge"
	ModuleForms        Module = "forms"
)

// Valid reports whether m is a known module.
func (m Module) Valid() bool {
	_, ok := ItemFor(m)
	return ok
}

// Item is one navigation entry.
type Item struct {
	ID    Module `json:"id"`
	Label string `json:"label"`
	Route string `json:"route"`
	Icon  string `json:"icon"`
}

var items = []Item{
	{ID: ModuleNewChat, Label: "New Chat", Route: "/chat", Icon: "+"},
	{ID: ModuleConversation, Label: "Chat History", Route: "/chat", Icon: "≡"},
	{ID: ModuleKnowledge, Label: "Knowledge Base", Route: "/knowledge", Icon: "▤"},
	{ID: ModuleForms, Label: "E-Forms", Route: "/forms", Icon: "▦"},
}

// Items returns the navigation entries in display order.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// ItemFor returns the entry for m.
func ItemFor(m Module) (Item, bool) {
	for _, it := range items {
		if it.ID == m {
			return it, true
		}
	}
	return Item{}, false
}

// State is the persisted sidebar state.
type State struct {
	ActiveModule Module `json:"activeModule"`
	IsHovering   bool   `json:"isHovering"`
	IsPinned     bool   `json:"isPinned"`
}

// ShouldShowSecondary reports whether the secondary panel is visible.
func (s State) ShouldShowSecondary() bool {
	return s.IsPinned || s.IsHovering
}

// Store guards State and persists every change.
type Store struct {
	mu        sync.Mutex
	state     State
	persister storage.Persister
	logger    *slog.Logger
}

// NewStore creates a store with the conversation module active.
func NewStore(p storage.Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:     State{ActiveModule: ModuleConversation},
		persister: p,
		logger:    logger.With("component", "sidebar"),
	}
}

// Restore loads the persisted state, if any.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	var st State
	ok, err := storage.LoadJSON(ctx, s.persister, storage.KeySidebar, &st)
	if err != nil || !ok {
		return err
	}
	if !st.ActiveModule.Valid() {
		st.ActiveModule = ModuleConversation
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) ActiveModule() Module      { return s.State().ActiveModule }
func (s *Store) Hovering() bool            { return s.State().IsHovering }
func (s *Store) Pinned() bool              { return s.State().IsPinned }
func (s *Store) ShouldShowSecondary() bool { return s.State().ShouldShowSecondary() }

// SetActiveModule selects m.
func (s *Store) SetActiveModule(m Module) error {
	if !m.Valid() {
		return fmt.Errorf("unknown module %q", m)
	}
	s.update(func(st *State) { st.ActiveModule = m })
	return nil
}

// SetHovering records pointer hover over the rail.
func (s *Store) SetHovering(v bool) {
	s.update(func(st *State) { st.IsHovering = v })
}

// TogglePin flips the pinned flag and returns the new value.
func (s *Store) TogglePin() bool {
	var pinned bool
	s.update(func(st *State) {
		st.IsPinned = !st.IsPinned
		pinned = st.IsPinned
	})
	return pinned
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	st := s.state
	s.mu.Unlock()

	if s.persister == nil {
		return
	}
	if err := storage.SaveJSON(context.Background(), s.persister, storage.KeySidebar, st); err != nil {
		s.logger.Error("failed to persist sidebar", "error", err)
	}
}
