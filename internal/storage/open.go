// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local state persistence for farmdesk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendFile, BackendBolt, BackendSQLite, BackendMemory}

// Options selects and locates a persistence backend.
type Options struct {
	// Backend is one of the Backend* constants. Empty means BackendFile.
	Backend string
	// Path is a directory for BackendFile and a database file for
	// BackendBolt / BackendSQLite. Empty means the default under ~/.farmdesk.
	Path string
}

// Open creates the Persister described by opts.
func Open(opts Options) (Persister, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}

	path := opts.Path
	if path == "" && backend != BackendMemory {
		p, err := DefaultPath(backend)
		if err != nil {
			return nil, err
		}
		path = p
	}

	switch backend {
	case BackendFile:
		return NewFileStoreWithDir(path)
	case BackendBolt:
		return NewBoltStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultPath returns the default location for backend under ~/.farmdesk.
func DefaultPath(backend string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(homeDir, ".farmdesk")
	switch backend {
	case BackendBolt:
		return filepath.Join(base, "state.bolt"), nil
	case BackendSQLite:
		return filepath.Join(base, "state.db"), nil
	default:
		return filepath.Join(base, "state"), nil
	}
}
