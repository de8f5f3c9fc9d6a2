// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package session tracks the client's authentication lifecycle: who is
// logged in and what marketplace role they carry. The lifecycle is a
// one-way ladder per login (unauthenticated, authenticated, role
// assigned) and logout drops it back to the ground state.
package session

import (
	"strings"
	"sync"

	"github.com/medley-live/medley/lib/apperr"
	"github.com/medley-live/medley/lib/market"
)

// State is a position in the session lifecycle.
type State int

const (
	// Unauthenticated is the ground state: no identity, no role.
	Unauthenticated State = iota
	// Authenticated means an identity is present but its role is not
	// yet known (new identities land here until they register).
	Authenticated
	// RoleAssigned means the identity has a marketplace role and the
	// matching dashboard can be shown.
	RoleAssigned
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case RoleAssigned:
		return "role-assigned"
	default:
		return "unknown"
	}
}

// Session is the client-side record of the login lifecycle. All
// methods are safe for concurrent use.
type Session struct {
	mutex    sync.Mutex
	state    State
	identity string
	role     market.Role
	name     string
}

// New returns a session in the ground state.
func New() *Session {
	return &Session{}
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Identity returns the logged-in identity, empty when unauthenticated.
func (s *Session) Identity() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.identity
}

// Role returns the assigned role and whether one has been assigned.
func (s *Session) Role() (market.Role, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.role, s.state == RoleAssigned
}

// Name returns the display name recorded at registration, empty until
// a role is assigned.
func (s *Session) Name() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.name
}

// Login records the identity and moves to Authenticated. Logging in
// over an existing session is a validation error; the caller must log
// out first.
func (s *Session) Login(identity string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return apperr.Validation("identity must not be empty")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state != Unauthenticated {
		return apperr.Validation("already logged in as %s", s.identity)
	}
	s.state = Authenticated
	s.identity = identity
	return nil
}

// ValidateRegistration checks a registration form locally, before any
// backend call: a role must be chosen and the display name must not be
// blank.
func ValidateRegistration(role market.Role, name string) error {
	if role == "" {
		return apperr.Validation("select a role before registering")
	}
	if _, err := market.ParseRole(string(role)); err != nil {
		return apperr.Validation("unknown role %q", role)
	}
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name must not be blank")
	}
	return nil
}

// AdoptRole records the role for the logged-in identity and moves to
// RoleAssigned. The role is write-once per login: switching requires a
// fresh session.
func (s *Session) AdoptRole(role market.Role, name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	switch s.state {
	case Unauthenticated:
		return apperr.Validation("cannot adopt a role without logging in")
	case RoleAssigned:
		return apperr.Validation("role already assigned for this session")
	}
	s.state = RoleAssigned
	s.role = role
	s.name = name
	return nil
}

// Logout drops the session back to the ground state, clearing the
// identity, role, and name. Safe to call in any state.
func (s *Session) Logout() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state = Unauthenticated
	s.identity = ""
	s.role = ""
	s.name = ""
}
