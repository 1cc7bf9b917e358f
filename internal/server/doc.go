// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server serves the admin UI and its JSON API over HTTP.
//
// Pages are rendered server side from embedded templates. Every chat message
// carries data-message-id and data-role attributes so a browser side scroll
// spy can correlate visible messages with the conversation store.
//
// # Endpoints
//
//   - GET    /chat[/:id], /knowledge, /forms - pages; unknown paths redirect
//   - GET    /api/conversations              - list, optional ?q= filter
//   - POST   /api/conversations              - create
//   - GET    /api/conversations/:id          - fetch one
//   - DELETE /api/conversations/:id          - delete
//   - PUT    /api/conversations/current      - select
//   - POST   /chat/send                      - composer form post
//   - POST   /api/messages                   - send; the reply arrives later
//   - GET    /api/status                     - loading and error state
//   - GET    /api/theme, PUT /api/theme      - theme preference
//   - GET    /api/sidebar, PUT /api/sidebar  - navigation state
//   - POST   /api/sidebar/pin                - toggle pin
//   - GET    /api/user                       - session
//   - POST   /api/user/login, /api/user/logout
//   - POST   /api/render                     - markdown to sanitized HTML
//   - GET    /health                         - liveness and request counters
//
// # Middleware
//
//   - Panic recovery with stack logging
//   - Structured request logging
//   - Security headers
//   - Per-client token bucket rate limiting
//
// # Usage
//
//	srv := server.New(server.Options{
//		Conversations: convs,
//		Theme:         themes,
//		Sidebar:       nav,
//		User:          users,
//		Config:        cfg.Server,
//		Logger:        logger,
//	})
//	if err := srv.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
package server
