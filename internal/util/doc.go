// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across farmdesk packages.
//
// # Key Functions
//
// String Utilities:
//   - Truncate: keep N characters and append "..." (titles, snippets)
//   - TruncateRunes: fit text, ellipsis included, into N characters
//   - SingleLine: collapse line breaks for previews
//   - Fold: case and normalization folding for search
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.Truncate(firstMessage, 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
