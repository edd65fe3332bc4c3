// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/playbookshq/playbooks/internal/auth"
	"github.com/playbookshq/playbooks/internal/auth/sessionfile"
	"github.com/playbookshq/playbooks/internal/auth/sqlite"
	"github.com/playbookshq/playbooks/internal/database"
	"github.com/playbookshq/playbooks/internal/navigate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type seedHasher struct{}

func (seedHasher) Hash(password string) (string, error) { return "seed:" + password, nil }
func (seedHasher) Verify(p, h string) (bool, error)     { return h == "seed:"+p, nil }
func (seedHasher) NeedsUpgrade(string) bool             { return false }

func newRepo(t *testing.T) (*sqlite.UserRepository, *sql.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "playbooks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	require.NoError(t, database.NewRunner(db, seedHasher{}, nil).Run(context.Background(), database.DefaultSchema()))
	return sqlite.NewUserRepository(db), db
}

func newUser(email string, role auth.Role) *auth.UserRecord {
	return &auth.UserRecord{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: "seed:pw",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepository_CreateAndGetByEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	user := newUser("alice@example.com", auth.RoleUser)
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.Equal(t, auth.RoleUser, got.Role)
	assert.True(t, got.CreatedAt.Equal(user.CreatedAt))
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	require.NoError(t, repo.Create(ctx, newUser("Bob@Example.com", auth.RoleUser)))

	got, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob@Example.com", got.Email)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, _ := newRepo(t)

	_, err := repo.GetByEmail(context.Background(), "nope@x.com")
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserRepository_GetByEmail_SeededAdmins(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	got, err := repo.GetByEmail(ctx, "admin@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, got.Role)
	assert.Equal(t, "seed:"+database.SeedPassphrase, got.PasswordHash)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	require.NoError(t, repo.Create(ctx, newUser("dup@x.com", auth.RoleUser)))
	require.Error(t, repo.Create(ctx, newUser("dup@x.com", auth.RoleUser)))
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	user := newUser("carol@x.com", auth.RoleUser)
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "seed:rotated"))

	got, err := repo.GetByEmail(ctx, "carol@x.com")
	require.NoError(t, err)
	assert.Equal(t, "seed:rotated", got.PasswordHash)
}

func TestUserRepository_UpdatePasswordHash_UnknownID(t *testing.T) {
	repo, _ := newRepo(t)

	err := repo.UpdatePasswordHash(context.Background(), "missing", "seed:x")
	require.ErrorIs(t, err, auth.ErrNotFound)
}

// End-to-end bootstrap: after migration the well-known admin can log in and
// is routed to the privileged dashboard.
func TestLogin_SeededAdmin(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "playbooks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	hasher := auth.NewArgon2idHasher()
	require.NoError(t, database.NewRunner(db, hasher, nil).Run(ctx, database.DefaultSchema()))

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	rec := &navigate.Recorder{}
	m, err := auth.NewManager(sqlite.NewUserRepository(db), hasher, sessionfile.New(sessionPath), rec)
	require.NoError(t, err)
	m.Init(ctx)

	require.NoError(t, m.Login(ctx, "admin@gmail.com", database.SeedPassphrase))
	assert.True(t, m.IsAdmin())
	sess, ok := m.Session()
	require.True(t, ok)
	assert.Equal(t, "admin@gmail.com", sess.Email)
	last, navigated := rec.Last()
	require.True(t, navigated)
	assert.Equal(t, navigate.RouteBackoffice, last)
	assert.FileExists(t, sessionPath)
}
