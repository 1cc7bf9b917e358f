// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme tracks the light/dark preference and the theme actually
// applied to the UI.
//
// The user picks a Mode. ModeSystem defers to a Detector, which in a
// terminal asks termenv whether the background is dark. Only the mode is
// persisted; the applied theme is recomputed on start.
package theme

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/muesli/termenv"

	"github.com/jeranaias/farmdesk/internal/storage"
)

// Mode is the user's theme preference.
type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

// DefaultMode is used until the user picks one.
const DefaultMode = ModeSystem

// Applied is the theme in effect.
type Applied string

const (
	AppliedLight Applied = "light"
	AppliedDark  Applied = "dark"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeLight, ModeDark, ModeSystem:
		return true
	}
	return false
}

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid theme %q: must be light, dark or system", s)
	}
	return m, nil
}

// Option describes one selectable mode.
type Option struct {
	Value       Mode   `json:"value"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var options = []Option{
	{Value: ModeLight, Label: "Light", Icon: "sun", Description: "Use the light theme"},
	{Value: ModeDark, Label: "Dark", Icon: "moon", Description: "Use the dark theme"},
	{Value: ModeSystem, Label: "System", Icon: "computer", Description: "Follow the system setting"},
}

// Options returns the selectable modes in display order.
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Label returns the display label of m.
func Label(m Mode) string {
	for _, o := range options {
		if o.Value == m {
			return o.Label
		}
	}
	return string(m)
}

// Icon returns the icon name of m.
func Icon(m Mode) string {
	for _, o := range options {
		if o.Value == m {
			return o.Icon
		}
	}
	return ""
}

// Detector reports the system theme.
type Detector func() Applied

// TerminalDetector asks the terminal for its background color.
func TerminalDetector() Applied {
	if termenv.HasDarkBackground() {
		return AppliedDark
	}
	return AppliedLight
}

// =============================================================================
// STORE
// =============================================================================

type persisted struct {
	CurrentTheme Mode `json:"currentTheme"`
}

// StoreOptions configures a Store.
type StoreOptions struct {
	Persister storage.Persister
	// Detector resolves ModeSystem. Nil means TerminalDetector.
	Detector Detector
	Logger   *slog.Logger
}

// Store holds the theme state.
type Store struct {
	mu        sync.Mutex
	mode      Mode
	applied   Applied
	detect    Detector
	persister storage.Persister
	logger    *slog.Logger
	listeners []func(Applied)
}

// NewStore creates a store in DefaultMode with the applied theme resolved.
func NewStore(opts StoreOptions) *Store {
	detect := opts.Detector
	if detect == nil {
		detect = TerminalDetector
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		mode:      DefaultMode,
		applied:   AppliedLight,
		detect:    detect,
		persister: opts.Persister,
		logger:    logger.With("component", "theme"),
	}
	s.Resolve()
	return s
}

// Restore loads the persisted mode and resolves it.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	var p persisted
	ok, err := storage.LoadJSON(ctx, s.persister, storage.KeyTheme, &p)
	if err != nil || !ok {
		return err
	}
	if p.CurrentTheme.Valid() {
		s.mu.Lock()
		s.mode = p.CurrentTheme
		s.mu.Unlock()
	}
	s.Resolve()
	return nil
}

// SetTheme changes the mode, persists it and applies the result.
func (s *Store) SetTheme(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("invalid theme %q", m)
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()

	s.save()
	s.Resolve()
	return nil
}

// Cycle advances light, dark, system and back, returning the new mode.
func (s *Store) Cycle() Mode {
	next := ModeLight
	switch s.Theme() {
	case ModeLight:
		next = ModeDark
	case ModeDark:
		next = ModeSystem
	}
	_ = s.SetTheme(next)
	return next
}

// Theme returns the selected mode.
func (s *Store) Theme() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Applied returns the theme in effect.
func (s *Store) Applied() Applied {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

func (s *Store) IsDark() bool   { return s.Applied() == AppliedDark }
func (s *Store) IsLight() bool  { return s.Applied() == AppliedLight }
func (s *Store) IsSystem() bool { return s.Theme() == ModeSystem }

// Resolve recomputes the applied theme from the mode and returns it.
func (s *Store) Resolve() Applied {
	s.mu.Lock()
	mode, detect := s.mode, s.detect
	s.mu.Unlock()

	applied := Applied(mode)
	if mode == ModeSystem {
		applied = detect()
	}
	s.apply(applied)
	return applied
}

// SystemChanged applies a new system theme when following the system.
func (s *Store) SystemChanged(a Applied) {
	if s.IsSystem() {
		s.apply(a)
	}
}

// OnChange registers fn to run when the applied theme changes.
func (s *Store) OnChange(fn func(Applied)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// GlamourStyle returns the terminal markdown style for the applied theme.
func (s *Store) GlamourStyle() string {
	if s.IsDark() {
		return "dark"
	}
	return "light"
}

func (s *Store) apply(a Applied) {
	s.mu.Lock()
	changed := s.applied != a
	s.applied = a
	listeners := append([]func(Applied){}, s.listeners...)
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Debug("theme applied", "theme", a)
	for _, fn := range listeners {
		fn(a)
	}
}

func (s *Store) save() {
	if s.persister == nil {
		return
	}
	p := persisted{CurrentTheme: s.Theme()}
	if err := storage.SaveJSON(context.Background(), s.persister, storage.KeyTheme, p); err != nil {
		s.logger.Error("failed to persist theme", "error", err)
	}
}
