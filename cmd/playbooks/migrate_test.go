// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbookshq/playbooks/internal/auth"
	"github.com/playbookshq/playbooks/internal/auth/sqlite"
	"github.com/playbookshq/playbooks/internal/database"
)

// isolateXDG points every XDG base directory at a temp dir so command runs
// never touch the invoking user's real config or data.
func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestMigrateCommand_BootstrapsDatabase(t *testing.T) {
	dir := isolateXDG(t)
	dbPath := filepath.Join(dir, "playbooks.db")

	out, err := runCommand(t, "migrate", "--database-path", dbPath, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "completed successfully")
	assert.FileExists(t, dbPath)

	// The seeded admin is immediately usable.
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	user, err := sqlite.NewUserRepository(db).GetByEmail(context.Background(), "admin@gmail.com")
	require.NoError(t, err)
	ok, err := auth.NewArgon2idHasher().Verify(database.SeedPassphrase, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMigrateCommand_SchemaFlag(t *testing.T) {
	dir := isolateXDG(t)
	dbPath := filepath.Join(dir, "playbooks.db")

	schemaPath := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(schemaPath, []byte(database.DefaultSchema()), 0o600))

	_, err := runCommand(t, "migrate", "--database-path", dbPath, "--schema", schemaPath)
	require.NoError(t, err)
	assert.FileExists(t, dbPath)
}

func TestMigrateCommand_MissingSchemaFile(t *testing.T) {
	dir := isolateXDG(t)

	_, err := runCommand(t, "migrate",
		"--database-path", filepath.Join(dir, "playbooks.db"),
		"--schema", filepath.Join(dir, "absent.sql"),
	)
	require.Error(t, err)
}

func TestMigrateCommand_FailingStatementAbortsRun(t *testing.T) {
	dir := isolateXDG(t)

	schemaPath := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(schemaPath, []byte("THIS IS NOT SQL;"), 0o600))

	_, err := runCommand(t, "migrate",
		"--database-path", filepath.Join(dir, "playbooks.db"),
		"--schema", schemaPath,
	)
	require.Error(t, err)
}

func TestUserAddCommand(t *testing.T) {
	dir := isolateXDG(t)
	dbPath := filepath.Join(dir, "playbooks.db")

	_, err := runCommand(t, "migrate", "--database-path", dbPath)
	require.NoError(t, err)

	out, err := runCommand(t, "user", "add", "dana@example.com",
		"--database-path", dbPath,
		"--password", "s3cret!",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "dana@example.com")

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	user, err := sqlite.NewUserRepository(db).GetByEmail(context.Background(), "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, user.Role)
	ok, err := auth.NewArgon2idHasher().Verify("s3cret!", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserAddCommand_RequiresPassword(t *testing.T) {
	dir := isolateXDG(t)

	_, err := runCommand(t, "user", "add", "dana@example.com",
		"--database-path", filepath.Join(dir, "playbooks.db"),
	)
	require.Error(t, err)
}

func TestUserAddCommand_RejectsUnknownRole(t *testing.T) {
	dir := isolateXDG(t)
	dbPath := filepath.Join(dir, "playbooks.db")

	_, err := runCommand(t, "migrate", "--database-path", dbPath)
	require.NoError(t, err)

	_, err = runCommand(t, "user", "add", "root@example.com",
		"--database-path", dbPath,
		"--password", "s3cret!",
		"--role", "superuser",
	)
	require.Error(t, err)
}
