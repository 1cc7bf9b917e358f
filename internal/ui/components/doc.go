// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable TUI components for farmdesk.

# Components

  - ConversationList - the conversation sidebar with a fuzzy filter
  - NavRail - the module navigation entries
  - StatusBar - the bottom bar with reply status, theme and user

# Text helpers

FitWidth, PadRight and WrapText measure with go-runewidth so wide characters
(CJK, emoji) never overflow a column.

Components are plain structs with setters and a View method; the chat model
owns them and feeds them state on every update.
*/
package components
