// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package user holds the signed-in user and session token.
package user

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jeranaias/farmdesk/internal/storage"
)

// Role is a user's permission level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleViewer  Role = "viewer"
)

// GuestName is shown when nobody is signed in.
const GuestName = "Guest"

var roleLabels = map[Role]string{
	RoleAdmin:   "Administrator",
	RoleManager: "Manager",
	RoleUser:    "Regular User",
	RoleViewer:  "Guest",
}

// Label returns the display name of r.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return GuestName
}

// Info describes a user.
type Info struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Email  string `json:"email,omitempty"`
}

type persisted struct {
	User  *Info  `json:"user"`
	Token string `json:"token,omitempty"`
}

// Store holds the session.
type Store struct {
	mu        sync.Mutex
	user      *Info
	token     string
	persister storage.Persister
	logger    *slog.Logger
}

// NewStore creates a signed-out store.
func NewStore(p storage.Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{persister: p, logger: logger.With("component", "user")}
}

// Restore loads the persisted session, if any.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	var p persisted
	ok, err := storage.LoadJSON(ctx, s.persister, storage.KeyUser, &p)
	if err != nil || !ok {
		return err
	}
	s.mu.Lock()
	s.user = p.User
	s.token = p.Token
	s.mu.Unlock()
	return nil
}

// User returns a copy of the signed-in user.
func (s *Store) User() (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return Info{}, false
	}
	return *s.user, true
}

// Token returns the session token.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetUser replaces the user.
func (s *Store) SetUser(info Info) {
	s.mu.Lock()
	s.user = &info
	s.mu.Unlock()
	s.save()
}

// SetToken replaces the session token.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.save()
}

// Logout clears user and token.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	s.save()
}

// MockLogin signs in a fixed administrator for local use.
func (s *Store) MockLogin() {
	s.SetUser(Info{
		ID:    "1",
		Name:  "Zhang San",
		Role:  RoleAdmin,
		Email: "admin@example.com",
	})
	s.SetToken("mock-token-123")
}

// IsAuthenticated reports whether both a user and a token are set.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

// IsAdmin reports whether the user has the admin role.
func (s *Store) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.Role == RoleAdmin
}

// UserName returns the user's name, or GuestName.
func (s *Store) UserName() string {
	if u, ok := s.User(); ok && u.Name != "" {
		return u.Name
	}
	return GuestName
}

// RoleLabel returns the display name of the user's role.
func (s *Store) RoleLabel() string {
	if u, ok := s.User(); ok {
		return u.Role.Label()
	}
	return GuestName
}

func (s *Store) save() {
	if s.persister == nil {
		return
	}
	s.mu.Lock()
	p := persisted{User: s.user, Token: s.token}
	if p.User != nil {
		u := *p.User
		p.User = &u
	}
	s.mu.Unlock()

	if err := storage.SaveJSON(context.Background(), s.persister, storage.KeyUser, p); err != nil {
		s.logger.Error("failed to persist user", "error", err)
	}
}
