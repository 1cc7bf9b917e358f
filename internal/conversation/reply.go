// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
package conversation

import (
	"fmt"

	"github.com/jeranaias/farmdesk/internal/model"
)

// defaultReplyError is reported when a reply fails without a message.
const defaultReplyError = "AI reply failed"

// ReplyStatus is the reply bookkeeping of one conversation.
type ReplyStatus struct {
	// Pending counts replies still in flight for the conversation.
	Pending int
	// Err holds the last failure; it is cleared when a new reply starts.
	Err string
}

// Loading reports whether a reply is in flight.
func (r ReplyStatus) Loading() bool {
	return r.Pending > 0
}

// IsLoading reports whether any reply is in flight.
//
// The flag stays true until the last overlapping reply finishes rather
// than following whichever reply finished last.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Error returns the human-readable failure of the most recently finished
// reply, or "" when it succeeded. Overlapping replies share this field,
// last writer wins; use Status for an exact per-conversation view.
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Status returns the reply status of one conversation.
func (s *Store) Status(conversationID string) ReplyStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[conversationID]; ok {
		return *st
	}
	return ReplyStatus{}
}

// reply is the background half of SendMessage. The loading flag raised by
// SendMessage is lowered on every exit path, including a panicking
// responder.
func (s *Store) reply(conversationID, content string) {
	defer s.wg.Done()

	var replyErr error
	defer func() {
		if r := recover(); r != nil {
			replyErr = fmt.Errorf("reply panicked: %v", r)
		}
		s.endReply(conversationID, replyErr)
	}()

	if _, ok := s.Conversation(conversationID); !ok {
		s.logger.Debug("reply target vanished before request", "id", conversationID)
		return
	}

	text, err := s.responder.Reply(s.ctx, conversationID, content)
	if err != nil {
		replyErr = err
		return
	}

	s.appendReply(conversationID, text)
}

// beginReplyLocked must be called with s.mu held.
func (s *Store) beginReplyLocked(conversationID string) {
	s.inFlight++
	s.lastErr = ""
	st, ok := s.status[conversationID]
	if !ok {
		st = &ReplyStatus{}
		s.status[conversationID] = st
	}
	st.Pending++
	st.Err = ""
}

func (s *Store) endReply(conversationID string, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
		if msg == "" {
			msg = defaultReplyError
		}
	}

	s.mu.Lock()
	s.inFlight--
	if msg != "" {
		s.lastErr = msg
	}
	if st, ok := s.status[conversationID]; ok {
		st.Pending--
		if msg != "" {
			st.Err = msg
		}
		// Deleted conversations keep no status once their last reply ends.
		if st.Pending == 0 && s.findIndexLocked(conversationID) == -1 {
			delete(s.status, conversationID)
		}
	}
	s.mu.Unlock()

	if msg != "" {
		s.logger.Warn("reply failed", "id", conversationID, "error", msg)
	}
	s.notify(Event{Type: EventReplyFinished, ConversationID: conversationID, Err: msg})
}

// appendReply adds the assistant message unless the conversation was
// deleted while the reply was pending.
func (s *Store) appendReply(conversationID, text string) {
	s.mu.Lock()
	conv := s.findLocked(conversationID)
	if conv == nil {
		s.mu.Unlock()
		s.logger.Debug("reply target vanished", "id", conversationID)
		return
	}

	msg := model.NewAssistantMessage(text)
	conv.AddMessage(msg)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.notify(Event{Type: EventMessage, ConversationID: conversationID, MessageID: msg.ID})
}
