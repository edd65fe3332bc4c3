// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package auth

import (
	"context"

	"github.com/samber/oops"
)

// Role is the authorization level of an authenticated user.
type Role string

// The two roles the application distinguishes.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", oops.Code("AUTH_INVALID_ROLE").With("role", s).Errorf("unknown role %q", s)
	}
	return r, nil
}

// Session is the client-held record of an authenticated identity.
// It never carries the password hash; exactly these three fields are
// persisted between process runs.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Validate checks the structural invariants of a session record.
func (s *Session) Validate() error {
	if s.ID == "" {
		return oops.Code("SESSION_INVALID_ID").Errorf("session id cannot be empty")
	}
	if s.Email == "" {
		return oops.Code("SESSION_INVALID_EMAIL").Errorf("session email cannot be empty")
	}
	if !s.Role.Valid() {
		return oops.Code("SESSION_INVALID_ROLE").With("role", string(s.Role)).Errorf("unknown role %q", s.Role)
	}
	return nil
}

// SessionStore persists the session record across process restarts.
//
// Load returns ErrNoSession when nothing is persisted and ErrCorruptSession
// when the stored value fails structural parsing.
type SessionStore interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}
