// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the conversation
// store, the persistence layer and both user interfaces.
//
// # Key Types
//
//   - Conversation: ordered, titled sequence of messages with timestamps
//   - Message: single authored turn tagged with a Role
//   - Role: message role enumeration (user, assistant, system)
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddMessage(model.NewUserMessage("Hello!"))
//	conv.Title = model.DeriveTitle("Hello!")
package model
