// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package database

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"

	"github.com/playbookshq/playbooks/internal/auth"
)

//go:embed schema.sql
var defaultSchema string

// SeedPassphrase is the well-known initial password written for the admin
// seed accounts. Operators are expected to rotate it after first login.
const SeedPassphrase = "admin123"

// adminSeedEmails is the fixed set of accounts whose password hash is
// recomputed after the schema is applied.
var adminSeedEmails = []string{
	"free7assan@gmail.com",
	"admin@gmail.com",
}

// DefaultSchema returns the schema document compiled into the binary.
func DefaultSchema() string {
	return defaultSchema
}

// ReadSchemaFile reads an operator-supplied schema document from disk.
func ReadSchemaFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", oops.Code("MIGRATION_SCHEMA_READ_FAILED").
			With("path", path).
			Wrap(err)
	}
	return string(data), nil
}

// Runner applies a schema document to a database and seeds the admin
// accounts with a real password hash. It is a one-shot bootstrap: any
// failure aborts the run and the database is left where the failure
// occurred.
type Runner struct {
	db     *sql.DB
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewRunner creates a migration runner over an open database.
func NewRunner(db *sql.DB, hasher auth.PasswordHasher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, hasher: hasher, logger: logger}
}

// Run applies every statement of the schema document in order, then seeds
// the admin password hashes. It stops at the first failing statement.
func (r *Runner) Run(ctx context.Context, schema string) error {
	statements := SplitStatements(schema)
	r.logger.Info("executing schema statements", "count", len(statements))

	for i, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt+";"); err != nil {
			return oops.Code("MIGRATION_STATEMENT_FAILED").
				With("statement_index", i).
				With("statement", summarize(stmt)).
				Wrap(err)
		}
	}

	return r.seedAdminPasswords(ctx)
}

// SplitStatements splits a schema document on ';' and drops empty
// fragments. The split is deliberately naive: a ';' inside a string
// literal or trigger body would terminate the statement early, so the
// schema document must not embed the delimiter.
func SplitStatements(schema string) []string {
	fragments := strings.Split(schema, ";")
	statements := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if s := strings.TrimSpace(f); s != "" {
			statements = append(statements, s)
		}
	}
	return statements
}

// seedAdminPasswords recomputes the password hash for every admin seed
// account in a single update. Re-running recomputes rather than
// increments, so the step is safe to repeat.
func (r *Runner) seedAdminPasswords(ctx context.Context) error {
	r.logger.Info("seeding admin passwords", "accounts", len(adminSeedEmails))

	hash, err := r.hasher.Hash(SeedPassphrase)
	if err != nil {
		return oops.Code("MIGRATION_HASH_FAILED").Wrap(err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(adminSeedEmails)), ", ")
	args := make([]any, 0, len(adminSeedEmails)+1)
	args = append(args, hash)
	for _, email := range adminSeedEmails {
		args = append(args, email)
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE email IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return oops.Code("MIGRATION_SEED_FAILED").Wrap(err)
	}
	return nil
}

// summarize truncates a statement for error context.
func summarize(stmt string) string {
	const limit = 80
	stmt = strings.Join(strings.Fields(stmt), " ")
	if len(stmt) > limit {
		return stmt[:limit] + "..."
	}
	return stmt
}
