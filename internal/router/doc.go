// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps UI paths to pages.
//
// # Routes
//
//   - /chat/:id?  AI chat, optionally opened on one conversation
//   - /knowledge  knowledge base
//   - /forms      electronic forms
//
// "/" redirects to /chat and any unknown path redirects to "/", so every
// well-formed path resolves to a page.
//
// # Usage
//
//	m, err := router.Resolve("/chat/conv_0192")
//	if err != nil {
//	    return err
//	}
//	title := router.DocumentTitle(m)
//	id := m.Params["id"]
package router
