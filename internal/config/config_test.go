// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// isolateHome points the config directory at a temp dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Server.Addr = "127.0.0.1:9999"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

// TestConfig_ConcurrentMixedOperations tests a mix of all global operations
// happening concurrently.
func TestConfig_ConcurrentMixedOperations(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		switch i % 3 {
		case 0:
			go func() {
				defer wg.Done()
				if Global() == nil {
					t.Error("Global() returned nil")
				}
			}()
		case 1:
			go func() {
				defer wg.Done()
				SetGlobal(Default())
			}()
		case 2:
			go func() {
				defer wg.Done()
				_ = ReloadGlobal()
			}()
		}
	}
	wg.Wait()
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	_ = Global()

	custom := Default()
	custom.UI.Theme = "dark"
	SetGlobal(custom)

	if got := Global().UI.Theme; got != "dark" {
		t.Errorf("Expected theme 'dark', got '%s'", got)
	}
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Reply.Delay() != time.Second {
		t.Errorf("Expected 1s reply delay, got %v", cfg.Reply.Delay())
	}
	if cfg.ScrollSpy.RootMargin != "-20% 0px -80% 0px" {
		t.Errorf("unexpected root margin %q", cfg.ScrollSpy.RootMargin)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("Expected theme 'system', got '%s'", cfg.UI.Theme)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Expected backend 'file', got '%s'", cfg.Storage.Backend)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid default config", func(*Config) {}, ""},
		{"invalid backend", func(c *Config) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"negative delay", func(c *Config) { c.Reply.DelayMS = -1 }, "reply.delay_ms"},
		{"threshold too high", func(c *Config) { c.ScrollSpy.Threshold = 2 }, "scroll_spy.threshold"},
		{"bad root margin", func(c *Config) { c.ScrollSpy.RootMargin = "top" }, "scroll_spy.root_margin"},
		{"snippet too short", func(c *Config) { c.ScrollSpy.SnippetLength = 0 }, "scroll_spy.snippet_length"},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"narrow wrap", func(c *Config) { c.UI.WordWrap = 5 }, "ui.word_wrap"},
		{"invalid date format", func(c *Config) { c.UI.DateFormat = "epoch" }, "ui.date_format"},
		{"zero rate", func(c *Config) { c.Server.RateLimit = 0 }, "server.rate_limit"},
		{"invalid gin mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}
}

func TestConfig_ValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	cfg.Logging.Level = "trace"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined errors, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("expected 2 errors, got %d", n)
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "bolt"

[reply]
delay_ms = 250

[scroll_spy]
root_margin = "0px"

[ui]
theme = "dark"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Storage.Backend != "bolt" {
		t.Errorf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.Reply.Delay() != 250*time.Millisecond {
		t.Errorf("delay = %v", cfg.Reply.Delay())
	}
	if cfg.ScrollSpy.RootMargin != "0px" {
		t.Errorf("root margin = %s", cfg.ScrollSpy.RootMargin)
	}
	if cfg.ScrollSpy.Threshold != 0.5 {
		t.Errorf("threshold should keep its default, got %v", cfg.ScrollSpy.Threshold)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %s", cfg.UI.Theme)
	}
}

func TestLoadFromPath_ZeroThreshold(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[scroll_spy]\nthreshold = 0\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.ScrollSpy.Threshold != 0 {
		t.Errorf("explicit zero threshold replaced with %v", cfg.ScrollSpy.Threshold)
	}
	opts := cfg.ScrollSpy.Options()
	if opts.Threshold == nil || *opts.Threshold != 0 {
		t.Errorf("scrollspy threshold = %v, want 0", opts.Threshold)
	}
}

func TestLoadFromPath_YAML(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":9090\"\n  rate_burst: 5\nlogging:\n  format: json\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RateBurst != 5 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %s", cfg.Logging.Format)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[ui\ntheme="), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(bad); err == nil {
		t.Error("expected decode error")
	}

	invalid := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(invalid, []byte("[ui]\ntheme = \"neon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(invalid); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_PrefersTOML(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".farmdesk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[ui]\ntheme = \"light\"\n"), 0600)
	_ = os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ui:\n  theme: dark\n"), 0600)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("expected TOML to win, got theme %s", cfg.UI.Theme)
	}
}

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	isolateHome(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("unexpected addr %s", cfg.Server.Addr)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FARMDESK_STORAGE_BACKEND", "sqlite")
	t.Setenv("FARMDESK_REPLY_DELAY_MS", "10")
	t.Setenv("FARMDESK_THEME", "dark")
	t.Setenv("FARMDESK_LOG_LEVEL", "debug")
	t.Setenv("FARMDESK_ADDR", ":7000")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.Reply.DelayMS != 10 {
		t.Errorf("delay = %d", cfg.Reply.DelayMS)
	}
	if cfg.UI.Theme != "dark" || cfg.Logging.Level != "debug" || cfg.Server.Addr != ":7000" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("reply.delay_ms", "300"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cfg.Set("scroll_spy.threshold", 0.75); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, err := cfg.Get("reply.delay_ms")
	if err != nil || v.(int) != 300 {
		t.Errorf("Get delay = %v, %v", v, err)
	}
	if cfg.ScrollSpy.Threshold != 0.75 {
		t.Errorf("threshold = %v", cfg.ScrollSpy.Threshold)
	}

	for _, key := range []string{"", "nope", "ui", "ui.theme.color"} {
		if _, err := cfg.Get(key); err == nil {
			t.Errorf("Get(%q) should fail", key)
		}
	}
	if err := cfg.Set("reply.delay_ms", "soon"); err == nil {
		t.Error("expected integer parse error")
	}
}

func TestGetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("key %s does not resolve: %v", key, err)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	cfg := Default()
	cfg.UI.Theme = "dark"
	cfg.Storage.Backend = "memory"

	tomlPath := filepath.Join(dir, "out.toml")
	if err := SaveTOML(cfg, tomlPath); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}
	yamlPath := filepath.Join(dir, "out.yaml")
	if err := SaveYAML(cfg, yamlPath); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	for _, p := range []string{tomlPath, yamlPath} {
		loaded, err := LoadFromPath(p)
		if err != nil {
			t.Fatalf("LoadFromPath(%s): %v", p, err)
		}
		if loaded.UI.Theme != "dark" || loaded.Storage.Backend != "memory" {
			t.Errorf("%s: round trip lost values: %+v", p, loaded)
		}
	}

	info, err := os.Stat(tomlPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600, got %o", info.Mode().Perm())
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.UI.Theme = "dark"
	if cfg.UI.Theme == "dark" {
		t.Error("clone shares state with original")
	}
	if cfg.String() == "" {
		t.Error("String should not be empty")
	}
}

func TestWatch(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	changes := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changes:
		if cfg.UI.Theme != "dark" {
			t.Errorf("reloaded theme = %s", cfg.UI.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}
