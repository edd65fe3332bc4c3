// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package auth

import (
	"context"
	"time"
)

// UserRecord is a stored user account as read from persistence.
// The auth core never mutates it beyond the password hash.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// UserRepository manages user account persistence.
type UserRepository interface {
	// GetByEmail retrieves a user by email (case-insensitive).
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)

	// Create stores a new user.
	Create(ctx context.Context, user *UserRecord) error

	// UpdatePasswordHash updates only the password hash for a user.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}
