// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the terminal chat view for farmdesk.

The view is a Bubble Tea model over the shared stores: the conversation
store supplies messages and reply state, the theme store picks the palette,
the sidebar store decides whether the conversation list is shown and the
user store names the signed-in user.

# Layout

	+ New Chat  ≡ Chat History  ▤ Knowledge Base  ▦ E-Forms
	+-----------+---------------------------------------+
	| History   | Corn planting        Viewing: How ... |
	| > Corn... |---------------------------------------|
	|   Jan 2   | You 10:02                             |
	|           | ( How deep should I plant corn? )     |
	|           | Assistant 10:02                       |
	|           | ( ...markdown reply... )              |
	|           |---------------------------------------|
	|           | > Type a message...                   |
	+-----------+---------------------------------------+
	[OK] Ready                        System | Zhang San

# Store events

Store callbacks run on the reply goroutines, so they only enqueue the event.
A command blocks on the queue and hands each event to Update as a
StoreEventMsg, which re-reads the store and redraws.

# Current message

Rendered messages are laid out as line spans and handed to a
scrollspy.ViewportObserver. Every scroll updates the correlator and the
header shows a snippet of the user message being read.

# Keys

	Enter    send            Tab      focus history
	Ctrl+N   new chat        Ctrl+X   delete conversation
	Ctrl+T   cycle theme     Ctrl+B   pin history
	Ctrl+Y   copy reply      PgUp/Dn  scroll
	/        filter history  Ctrl+C   quit
*/
package chat
