// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local state persistence for farmdesk.
//
// Stores never perform I/O themselves; they hand a serialized snapshot to a
// Persister under a well-known key and read it back on start.
//
// # Key Types
//
//   - Persister: load/save contract consumed by the stores
//   - FileStore: one JSON file per key, written atomically (default)
//   - BoltStore: single bbolt database, one bucket
//   - SQLiteStore: key/value table in a SQLite database
//   - MemoryStore: in-process map for tests and ephemeral sessions
//
// # Usage
//
//	p, err := storage.Open(storage.Options{Backend: storage.BackendFile, Path: dir})
//	defer p.Close()
//
//	var snap chatSnapshot
//	ok, err := storage.LoadJSON(ctx, p, storage.KeyChat, &snap)
//
// # Keys
//
// chat-state, fa-theme, sidebar and user-info, matching the keys the browser
// build kept in local storage.
package storage
