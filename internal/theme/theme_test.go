// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/farmdesk/internal/storage"
)

func darkSystem() Applied  { return AppliedDark }
func lightSystem() Applied { return AppliedLight }

func TestDefaultFollowsSystem(t *testing.T) {
	s := NewStore(StoreOptions{Detector: darkSystem})
	assert.Equal(t, ModeSystem, s.Theme())
	assert.True(t, s.IsSystem())
	assert.True(t, s.IsDark())
	assert.Equal(t, "dark", s.GlamourStyle())
}

func TestSetTheme(t *testing.T) {
	s := NewStore(StoreOptions{Detector: darkSystem})

	require.NoError(t, s.SetTheme(ModeLight))
	assert.True(t, s.IsLight())
	assert.False(t, s.IsSystem())
	assert.Equal(t, "light", s.GlamourStyle())

	assert.Error(t, s.SetTheme("sepia"))
	assert.Equal(t, ModeLight, s.Theme())
}

func TestSystemChanged(t *testing.T) {
	s := NewStore(StoreOptions{Detector: lightSystem})
	s.SystemChanged(AppliedDark)
	assert.True(t, s.IsDark())

	require.NoError(t, s.SetTheme(ModeLight))
	s.SystemChanged(AppliedDark)
	assert.True(t, s.IsLight(), "explicit modes ignore system changes")
}

func TestCycle(t *testing.T) {
	s := NewStore(StoreOptions{Detector: lightSystem})
	assert.Equal(t, ModeLight, s.Cycle())
	assert.Equal(t, ModeDark, s.Cycle())
	assert.Equal(t, ModeSystem, s.Cycle())
}

func TestOnChange(t *testing.T) {
	s := NewStore(StoreOptions{Detector: lightSystem})
	var got []Applied
	s.OnChange(func(a Applied) { got = append(got, a) })

	require.NoError(t, s.SetTheme(ModeDark))
	require.NoError(t, s.SetTheme(ModeDark))
	require.NoError(t, s.SetTheme(ModeSystem))
	assert.Equal(t, []Applied{AppliedDark, AppliedLight}, got)
}

func TestPersistMode(t *testing.T) {
	mem := storage.NewMemoryStore()
	s := NewStore(StoreOptions{Persister: mem, Detector: lightSystem})
	require.NoError(t, s.SetTheme(ModeDark))

	data, ok, err := mem.Load(context.Background(), storage.KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"currentTheme":"dark"}`, string(data))

	restored := NewStore(StoreOptions{Persister: mem, Detector: lightSystem})
	require.NoError(t, restored.Restore(context.Background()))
	assert.Equal(t, ModeDark, restored.Theme())
	assert.True(t, restored.IsDark())
}

func TestLabelsAndIcons(t *testing.T) {
	assert.Len(t, Options(), 3)
	assert.Equal(t, "Dark", Label(ModeDark))
	assert.Equal(t, "computer", Icon(ModeSystem))
	assert.Equal(t, "odd", Label("odd"))

	m, err := ParseMode("light")
	require.NoError(t, err)
	assert.Equal(t, ModeLight, m)
	_, err = ParseMode("")
	assert.Error(t, err)
}
