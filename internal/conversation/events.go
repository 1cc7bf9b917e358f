// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
package conversation

// EventType identifies what changed in the store.
type EventType int

const (
	EventCreated EventType = iota + 1
	EventSelected
	EventDeleted
	EventMessage
	EventReplyStarted
	EventReplyFinished
	EventRestored
)

// String returns the event name used in logs.
func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventSelected:
		return "selected"
	case EventDeleted:
		return "deleted"
	case EventMessage:
		return "message"
	case EventReplyStarted:
		return "reply_started"
	case EventReplyFinished:
		return "reply_finished"
	case EventRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// Event describes a single store mutation.
type Event struct {
	Type           EventType
	ConversationID string
	MessageID      string
	// Err is set on EventReplyFinished when the reply failed.
	Err string
}

// subscribe registers fn and returns its handle. Caller holds s.mu.
func (s *Store) subscribeLocked(fn func(Event)) int {
	s.nextSub++
	s.subscribers[s.nextSub] = fn
	return s.nextSub
}

// Subscribe registers fn to be called after every mutation. Callbacks run
// synchronously on the mutating goroutine, after the store lock is
// released, and must not block. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.subscribeLocked(fn)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// notify delivers ev to every subscriber.
func (s *Store) notify(ev Event) {
	s.mu.Lock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
