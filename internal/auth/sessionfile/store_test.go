// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package sessionfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbookshq/playbooks/internal/auth"
	"github.com/playbookshq/playbooks/internal/auth/sessionfile"
	"github.com/playbookshq/playbooks/internal/navigate"
)

func newStore(t *testing.T) (*sessionfile.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.json")
	return sessionfile.New(path), path
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t)

	sess := &auth.Session{ID: "u1", Email: "admin@gmail.com", Role: auth.RoleAdmin}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)

	// The record on disk carries exactly id, email, and role.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 3)
	assert.NotContains(t, raw, "password_hash")
}

func TestStore_Load_Missing(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, auth.ErrNoSession)
}

func TestStore_Load_Corrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{not json`},
		{"wrong field type", `{"id": 7, "email": "a@x.com", "role": "user"}`},
		{"unknown role", `{"id": "u1", "email": "a@x.com", "role": "root"}`},
		{"missing fields", `{"role": "user"}`},
		{"empty file", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o600))

			_, err := store.Load(ctx)
			require.ErrorIs(t, err, auth.ErrCorruptSession)
		})
	}
}

func TestStore_Save_RejectsInvalidSession(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.Error(t, store.Save(ctx, nil))
	require.Error(t, store.Save(ctx, &auth.Session{ID: "u1", Email: "a@x.com", Role: "root"}))
}

func TestStore_Save_OverwritesAtomically(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t)

	require.NoError(t, store.Save(ctx, &auth.Session{ID: "u1", Email: "a@x.com", Role: auth.RoleUser}))
	require.NoError(t, store.Save(ctx, &auth.Session{ID: "u2", Email: "b@x.com", Role: auth.RoleAdmin}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u2", loaded.ID)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t)

	require.NoError(t, store.Save(ctx, &auth.Session{ID: "u1", Email: "a@x.com", Role: auth.RoleUser}))
	require.NoError(t, store.Clear(ctx))
	assert.NoFileExists(t, path)

	// Clearing an absent record is a no-op.
	require.NoError(t, store.Clear(ctx))
}

// Corrupted storage at startup: the manager ends unauthenticated, the bad
// record is removed, and nothing escapes initialization.
func TestManagerRestore_CorruptFileIsCleared(t *testing.T) {
	ctx := context.Background()
	store, path := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	m, err := auth.NewManager(stubRepo{}, auth.NewArgon2idHasher(), store, navigate.Noop)
	require.NoError(t, err)

	m.Init(ctx)
	assert.Equal(t, auth.StateUnauthenticated, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.NoFileExists(t, path)
}

type stubRepo struct{}

func (stubRepo) GetByEmail(context.Context, string) (*auth.UserRecord, error) {
	return nil, auth.ErrNotFound
}

func (stubRepo) Create(context.Context, *auth.UserRecord) error { return nil }

func (stubRepo) UpdatePasswordHash(context.Context, string, string) error { return nil }
