// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/storage"
)

// ErrConversationNotFound is returned by SendMessage for an unknown ID.
// Use errors.Is(err, ErrConversationNotFound) to check for this error.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrClosed is returned by SendMessage after Close.
var ErrClosed = errors.New("conversation store closed")

// Options configures a Store.
type Options struct {
	// Responder answers user messages. Nil means a SimulatedResponder
	// with DefaultReplyDelay.
	Responder Responder

	// Persister receives a snapshot after every change to the
	// conversation collection. Nil disables persistence.
	Persister storage.Persister

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// =============================================================================
// STORE
// =============================================================================

// Store is the single source of truth for all conversations.
//
// Every public method is atomic with respect to the others; a mutation and
// its derived updates (message append, title, timestamps) are never
// observed half-done.
type Store struct {
	mu sync.Mutex

	// Most-recent-first; new conversations are pushed to the front.
	conversations []*model.Conversation
	currentID     string

	// Reply bookkeeping.
	inFlight int
	lastErr  string
	status   map[string]*ReplyStatus

	subscribers map[int]func(Event)
	nextSub     int

	responder Responder
	persister storage.Persister
	logger    *slog.Logger

	// version increases on every persisted mutation so that snapshots
	// written out of order never overwrite a newer one.
	version      uint64
	saveMu       sync.Mutex
	savedVersion uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	responder := opts.Responder
	if responder == nil {
		responder = SimulatedResponder{Delay: DefaultReplyDelay}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		conversations: make([]*model.Conversation, 0),
		status:        make(map[string]*ReplyStatus),
		subscribers:   make(map[int]func(Event)),
		responder:     responder,
		persister:     opts.Persister,
		logger:        logger.With("component", "conversation"),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// =============================================================================
// CONVERSATION MANAGEMENT
// =============================================================================

// CreateConversation allocates an empty conversation, pushes it to the front
// of the collection and marks it current.
func (s *Store) CreateConversation() *model.Conversation {
	s.mu.Lock()
	conv := s.createLocked()
	clone := conv.Clone()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("conversation created", "id", conv.ID)
	s.persist(snap)
	s.notify(Event{Type: EventCreated, ConversationID: clone.ID})
	return clone
}

func (s *Store) createLocked() *model.Conversation {
	conv := model.NewConversation()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.currentID = conv.ID
	return conv
}

// SetCurrentConversation moves the current-selection pointer. The ID is not
// validated; callers render nothing for an unknown selection.
func (s *Store) SetCurrentConversation(id string) {
	s.mu.Lock()
	s.currentID = id
	s.mu.Unlock()

	s.notify(Event{Type: EventSelected, ConversationID: id})
}

// DeleteConversation removes the conversation with id. Unknown IDs are a
// no-op. When the deleted conversation was current, the selection moves to
// the conversation that takes its place in the list (the next most recent),
// then to the one before it, and is cleared when none remain.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	idx := s.findIndexLocked(id)
	if idx == -1 {
		s.mu.Unlock()
		return
	}

	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	delete(s.status, id)

	if s.currentID == id {
		switch {
		case idx < len(s.conversations):
			s.currentID = s.conversations[idx].ID
		case len(s.conversations) > 0:
			s.currentID = s.conversations[len(s.conversations)-1].ID
		default:
			s.currentID = ""
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("conversation deleted", "id", id)
	s.persist(snap)
	s.notify(Event{Type: EventDeleted, ConversationID: id})
}

// SendMessage appends a user message and returns the conversation ID before
// any reply exists. The loading flag is already raised when it returns.
//
// An empty conversationID creates a new conversation. An ID that does not
// resolve fails with ErrConversationNotFound and changes nothing. The first
// message of a conversation also sets its title. The assistant reply is
// resolved in the background; its outcome is visible only through
// IsLoading, Error, Status and events.
func (s *Store) SendMessage(conversationID, content string) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}

	var conv *model.Conversation
	created := false
	if conversationID == "" {
		conv = s.createLocked()
		created = true
	} else {
		conv = s.findLocked(conversationID)
		if conv == nil {
			s.mu.Unlock()
			return "", fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
		}
	}

	msg := model.NewUserMessage(content)
	conv.AddMessage(msg)
	if len(conv.Messages) == 1 {
		conv.Title = model.DeriveTitle(content)
	}

	id := conv.ID
	snap := s.snapshotLocked()
	s.beginReplyLocked(id)
	s.wg.Add(1)
	s.mu.Unlock()

	s.persist(snap)
	if created {
		s.notify(Event{Type: EventCreated, ConversationID: id})
	}
	s.notify(Event{Type: EventMessage, ConversationID: id, MessageID: msg.ID})
	s.notify(Event{Type: EventReplyStarted, ConversationID: id})

	go s.reply(id, content)
	return id, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Conversations returns copies of all conversations, most recent first.
func (s *Store) Conversations() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = conv.Clone()
	}
	return out
}

// Conversation returns a copy of the conversation with id.
func (s *Store) Conversation(id string) (*model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return nil, false
	}
	return conv.Clone(), true
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// FindIndex returns the position of id in the collection, or -1.
func (s *Store) FindIndex(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findIndexLocked(id)
}

// CurrentID returns the current selection, which may be empty or may name a
// conversation that no longer resolves.
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Current returns a copy of the current conversation when it resolves.
func (s *Store) Current() (*model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(s.currentID)
	if conv == nil {
		return nil, false
	}
	return conv.Clone(), true
}

func (s *Store) findIndexLocked(id string) int {
	for i, conv := range s.conversations {
		if conv.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findLocked(id string) *model.Conversation {
	if idx := s.findIndexLocked(id); idx != -1 {
		return s.conversations[idx]
	}
	return nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Wait blocks until every reply started so far has finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close rejects further sends, cancels pending replies and waits for them.
// Cancelled replies finish as reply failures.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
