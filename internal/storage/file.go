// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local state persistence for farmdesk.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/farmdesk/internal/util"
)

// FileStore keeps each key in its own JSON file under BaseDir.
type FileStore struct {
	// BaseDir is the directory holding the state files.
	// Default: ~/.farmdesk/state/
	BaseDir string
}

// NewFileStore creates a file store rooted at ~/.farmdesk/state.
func NewFileStore() (*FileStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStoreWithDir(filepath.Join(homeDir, ".farmdesk", "state"))
}

// NewFileStoreWithDir creates a store with a custom directory.
func NewFileStoreWithDir(baseDir string) (*FileStore, error) {
	// 0700: state files contain conversation history and tokens
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Load implements Persister.
func (s *FileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Save implements Persister.
// RELIABILITY: Atomic write with fsync prevents a torn state file on crash.
func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return util.AtomicWriteFile(s.filePath(key), data, 0600)
}

// Keys lists the keys currently saved on disk.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return keys, nil
}

// Close implements Persister.
func (s *FileStore) Close() error { return nil }

// filePath returns the file path for a key.
func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.BaseDir, key+".json")
}
