// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/farmdesk/internal/storage"
)

func TestGuest(t *testing.T) {
	s := NewStore(nil, nil)
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, GuestName, s.UserName())
	assert.Equal(t, GuestName, s.RoleLabel())
}

func TestAuthenticationNeedsUserAndToken(t *testing.T) {
	s := NewStore(nil, nil)
	s.SetUser(Info{ID: "7", Name: "Li", Role: RoleManager})
	assert.False(t, s.IsAuthenticated())

	s.SetToken("tok")
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "Manager", s.RoleLabel())
	assert.False(t, s.IsAdmin())

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestMockLoginPersists(t *testing.T) {
	mem := storage.NewMemoryStore()
	s := NewStore(mem, nil)
	s.MockLogin()

	assert.True(t, s.IsAdmin())
	assert.Equal(t, "Zhang San", s.UserName())
	assert.Equal(t, "Administrator", s.RoleLabel())

	restored := NewStore(mem, nil)
	require.NoError(t, restored.Restore(context.Background()))
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "mock-token-123", restored.Token())
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Regular User", RoleUser.Label())
	assert.Equal(t, "Guest", RoleViewer.Label())
	assert.Equal(t, "Guest", Role("root").Label())
}
