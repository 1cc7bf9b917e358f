// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestColorHandlerPlain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColorHandler(&buf, slog.LevelInfo, true))

	logger.Debug("hidden")
	logger.With("component", "store").WithGroup("reply").Warn("reply failed", "id", "conv_1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WRN reply failed")
	assert.Contains(t, out, " component=store")
	assert.Contains(t, out, " reply.id=conv_1")
	assert.NotContains(t, out, "\x1b[", "no escape codes when color is off")
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Setup(Options{Level: "debug", Format: "json", Writer: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hello", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "farmdesk.log")
	logger, closer, err := Setup(Options{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "INF written to file"))
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
