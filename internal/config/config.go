// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for farmdesk.
//
// Supports both TOML and YAML configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.farmdesk/config.toml
//   - ~/.farmdesk/config.yaml
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/farmdesk/internal/scrollspy"
	"github.com/jeranaias/farmdesk/internal/storage"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete farmdesk configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage" yaml:"storage" json:"storage"`
	Reply     ReplyConfig     `toml:"reply" yaml:"reply" json:"reply"`
	ScrollSpy ScrollSpyConfig `toml:"scroll_spy" yaml:"scroll_spy" json:"scroll_spy"`
	UI        UIConfig        `toml:"ui" yaml:"ui" json:"ui"`
	Server    ServerConfig    `toml:"server" yaml:"server" json:"server"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging" json:"logging"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is one of file, bolt, sqlite or memory.
	Backend string `toml:"backend" yaml:"backend" json:"backend"`
	// Path overrides the backend's default location.
	Path string `toml:"path" yaml:"path" json:"path"`
}

// ReplyConfig controls the simulated assistant.
type ReplyConfig struct {
	DelayMS int `toml:"delay_ms" yaml:"delay_ms" json:"delay_ms"`
}

// Delay returns the reply latency.
func (r ReplyConfig) Delay() time.Duration {
	return time.Duration(r.DelayMS) * time.Millisecond
}

// ScrollSpyConfig tunes the current-message tracker.
type ScrollSpyConfig struct {
	Threshold     float64 `toml:"threshold" yaml:"threshold" json:"threshold"`
	RootMargin    string  `toml:"root_margin" yaml:"root_margin" json:"root_margin"`
	SnippetLength int     `toml:"snippet_length" yaml:"snippet_length" json:"snippet_length"`
}

// Options converts the section to scrollspy options.
func (s ScrollSpyConfig) Options() scrollspy.Options {
	return scrollspy.Options{
		Threshold:     scrollspy.Threshold(s.Threshold),
		RootMargin:    s.RootMargin,
		SnippetLength: s.SnippetLength,
	}
}

// UIConfig contains terminal and page presentation settings.
type UIConfig struct {
	// Theme is the initial mode when none was persisted: light, dark or system.
	Theme        string `toml:"theme" yaml:"theme" json:"theme"`
	WordWrap     int    `toml:"word_wrap" yaml:"word_wrap" json:"word_wrap"`
	SidebarWidth int    `toml:"sidebar_width" yaml:"sidebar_width" json:"sidebar_width"`
	// DateFormat is full, short or time.
	DateFormat string `toml:"date_format" yaml:"date_format" json:"date_format"`
}

// ServerConfig configures the browser surface.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"`
	// RateLimit is the sustained requests per second allowed per client.
	RateLimit float64 `toml:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	RateBurst int     `toml:"rate_burst" yaml:"rate_burst" json:"rate_burst"`
	// Mode is the gin mode: debug, release or test.
	Mode string `toml:"mode" yaml:"mode" json:"mode"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level"`
	Format string `toml:"format" yaml:"format" json:"format"`
	// File receives log output; empty means stderr. The TUI always logs to
	// a file because it owns the terminal.
	File string `toml:"file" yaml:"file" json:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: storage.BackendFile,
		},
		Reply: ReplyConfig{
			DelayMS: 1000,
		},
		ScrollSpy: ScrollSpyConfig{
			Threshold:     scrollspy.DefaultThreshold,
			RootMargin:    scrollspy.DefaultRootMargin,
			SnippetLength: scrollspy.DefaultSnippetLength,
		},
		UI: UIConfig{
			Theme:        string(theme.DefaultMode),
			WordWrap:     80,
			SidebarWidth: 28,
			DateFormat:   "full",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 10,
			RateBurst: 20,
			Mode:      "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the farmdesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".farmdesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then YAML, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathYAML} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Files ending in .yaml or .yml are YAML; anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies env overrides, fills defaults and validates.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// SetDefaults fills in any zero values with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Reply.DelayMS < 0 {
		c.Reply.DelayMS = 0
	}
	if c.ScrollSpy.RootMargin == "" {
		c.ScrollSpy.RootMargin = defaults.ScrollSpy.RootMargin
	}
	if c.ScrollSpy.SnippetLength == 0 {
		c.ScrollSpy.SnippetLength = defaults.ScrollSpy.SnippetLength
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = defaults.UI.WordWrap
	}
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = defaults.UI.DateFormat
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = defaults.Server.RateLimit
	}
	if c.Server.RateBurst == 0 {
		c.Server.RateBurst = defaults.Server.RateBurst
	}
	if c.Server.Mode == "" {
		c.Server.Mode = defaults.Server.Mode
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path atomically with 0600
// permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# farmdesk configuration file")
	fmt.Fprintln(&buf, "# Generated by farmdesk - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveYAML writes the configuration to path as YAML.
func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validLogLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats  = map[string]bool{"text": true, "json": true}
	validServerModes = map[string]bool{"debug": true, "release": true, "test": true}
	validDateFormats = map[string]bool{"full": true, "short": true, "time": true}
)

// Validate checks every section. All problems are reported together; use
// errors.As with ValidationError to inspect one.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	validBackend := false
	for _, b := range storage.Backends {
		if c.Storage.Backend == b {
			validBackend = true
		}
	}
	if !validBackend {
		add("storage.backend", "invalid backend '%s', must be one of: %s",
			c.Storage.Backend, strings.Join(storage.Backends, ", "))
	}

	if c.Reply.DelayMS < 0 || c.Reply.DelayMS > 60000 {
		add("reply.delay_ms", "must be between 0 and 60000, got %d", c.Reply.DelayMS)
	}

	if c.ScrollSpy.Threshold < 0 || c.ScrollSpy.Threshold > 1 {
		add("scroll_spy.threshold", "must be between 0 and 1, got %v", c.ScrollSpy.Threshold)
	}
	if _, err := scrollspy.ParseRootMargin(c.ScrollSpy.RootMargin); err != nil {
		add("scroll_spy.root_margin", "%v", err)
	}
	if c.ScrollSpy.SnippetLength < 1 || c.ScrollSpy.SnippetLength > 500 {
		add("scroll_spy.snippet_length", "must be between 1 and 500, got %d", c.ScrollSpy.SnippetLength)
	}

	if _, err := theme.ParseMode(c.UI.Theme); err != nil {
		add("ui.theme", "%v", err)
	}
	if c.UI.WordWrap < 20 || c.UI.WordWrap > 400 {
		add("ui.word_wrap", "must be between 20 and 400, got %d", c.UI.WordWrap)
	}
	if c.UI.SidebarWidth < 10 || c.UI.SidebarWidth > 80 {
		add("ui.sidebar_width", "must be between 10 and 80, got %d", c.UI.SidebarWidth)
	}
	if !validDateFormats[c.UI.DateFormat] {
		add("ui.date_format", "invalid format '%s', must be one of: full, short, time", c.UI.DateFormat)
	}

	if c.Server.RateLimit <= 0 {
		add("server.rate_limit", "must be positive, got %v", c.Server.RateLimit)
	}
	if c.Server.RateBurst < 1 {
		add("server.rate_burst", "must be at least 1, got %d", c.Server.RateBurst)
	}
	if !validServerModes[c.Server.Mode] {
		add("server.mode", "invalid mode '%s', must be one of: debug, release, test", c.Server.Mode)
	}

	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		add("logging.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		add("logging.format", "invalid format '%s', must be one of: text, json", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FARMDESK_STORAGE_BACKEND: overrides storage.backend
//   - FARMDESK_STORAGE_PATH: overrides storage.path
//   - FARMDESK_REPLY_DELAY_MS: overrides reply.delay_ms
//   - FARMDESK_THEME: overrides ui.theme
//   - FARMDESK_ADDR: overrides server.addr
//   - FARMDESK_LOG_LEVEL: overrides logging.level
//   - FARMDESK_LOG_FORMAT: overrides logging.format
//   - FARMDESK_LOG_FILE: overrides logging.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FARMDESK_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("FARMDESK_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("FARMDESK_REPLY_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Reply.DelayMS = ms
		}
	}
	if v := os.Getenv("FARMDESK_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("FARMDESK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FARMDESK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FARMDESK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("FARMDESK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "reply.delay_ms").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"storage.backend",
		"storage.path",
		"reply.delay_ms",
		"scroll_spy.threshold",
		"scroll_spy.root_margin",
		"scroll_spy.snippet_length",
		"ui.theme",
		"ui.word_wrap",
		"ui.sidebar_width",
		"ui.date_format",
		"server.addr",
		"server.rate_limit",
		"server.rate_burst",
		"server.mode",
		"logging.level",
		"logging.format",
		"logging.file",
	}
}

// Clone creates a copy of the configuration. Config holds only value
// fields, so a struct copy is deep.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
