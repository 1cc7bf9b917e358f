// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local state persistence for farmdesk.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// Well-known persistence keys.
const (
	KeyChat    = "chat-state"
	KeyTheme   = "fa-theme"
	KeySidebar = "sidebar"
	KeyUser    = "user-info"
)

// Persister is the durable key/value contract consumed by the stores.
// Load reports ok=false, with no error, when nothing was saved under key.
type Persister interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// ErrInvalidKey is returned for keys that are empty or contain characters
// outside [A-Za-z0-9._-].
var ErrInvalidKey = errors.New("storage: invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// =============================================================================
// JSON HELPERS
// =============================================================================

// LoadJSON loads key and decodes it into v. It returns false when the key
// has never been saved.
func LoadJSON(ctx context.Context, p Persister, key string, v any) (bool, error) {
	data, ok, err := p.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and saves it under key.
func SaveJSON(ctx context.Context, p Persister, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return p.Save(ctx, key, data)
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps state in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load implements Persister.
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Save implements Persister.
func (m *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Close implements Persister.
func (m *MemoryStore) Close() error { return nil }
