// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
//
// The Store is the single source of truth for both user interfaces. Sending
// a message is two-phase: the user message is appended and the conversation
// ID returned immediately (optimistic update), then a background reply is
// resolved by a Responder and appended later. Reply progress is observed only
// through IsLoading, Error, Status and change events, never through the
// SendMessage return value.
//
// # Key Types
//
//   - Store: conversation collection, current selection, reply bookkeeping
//   - Responder: produces assistant replies (SimulatedResponder by default)
//   - Event: change notification delivered to subscribers
//
// # Usage
//
//	store := conversation.NewStore(conversation.Options{Persister: p})
//	if err := store.Restore(ctx); err != nil { ... }
//	defer store.Close()
//
//	id, err := store.SendMessage("", "hello")   // creates a conversation
//	store.Wait()                                 // reply appended
package conversation
