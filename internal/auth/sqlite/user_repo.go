// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

// Package sqlite implements auth persistence on the application SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/playbookshq/playbooks/internal/auth"
)

// UserRepository implements auth.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE LOWER(email) = LOWER(?)
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("email", email).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			With("email", email).
			Wrap(err)
	}
	return user, nil
}

// Create stores a new user.
func (r *UserRepository) Create(ctx context.Context, user *auth.UserRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		user.ID,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}
	return nil
}

// UpdatePasswordHash updates only the password hash for a user.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ? WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return oops.Code("USER_UPDATE_HASH_FAILED").
			With("operation", "update password hash").
			With("id", id).
			Wrap(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return oops.Code("USER_UPDATE_HASH_FAILED").
			With("operation", "rows affected").
			With("id", id).
			Wrap(err)
	}
	if affected == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*auth.UserRecord, error) {
	var (
		user      auth.UserRecord
		role      string
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := auth.ParseRole(role)
	if err != nil {
		return nil, err
	}
	user.Role = parsed

	// Timestamps are stored as RFC 3339 text. Tolerate the bare SQLite
	// CURRENT_TIMESTAMP format for rows seeded outside the repository.
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		ts, err = time.Parse("2006-01-02 15:04:05", createdAt)
		if err != nil {
			return nil, err
		}
	}
	user.CreatedAt = ts

	return &user, nil
}
