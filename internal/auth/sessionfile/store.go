// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

// Package sessionfile persists the client session record as a JSON file.
//
// It is the durable client-side storage behind auth.SessionStore: one fixed
// path, one record of exactly {id, email, role}, no expiry. The record stays
// until explicit logout or manual removal.
package sessionfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/playbookshq/playbooks/internal/auth"
	"github.com/playbookshq/playbooks/internal/xdg"
)

// FileName is the session record file name under the state directory.
const FileName = "session.json"

const fileMode = 0o600

// DefaultPath returns the default session record path in the XDG state dir.
func DefaultPath() string {
	return filepath.Join(xdg.StateDir(), FileName)
}

// Store implements auth.SessionStore on a single JSON file.
type Store struct {
	path string
}

// New creates a Store persisting to the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and structurally parses the persisted session record.
// A missing file maps to auth.ErrNoSession; an unparsable or structurally
// invalid record maps to auth.ErrCorruptSession.
func (s *Store) Load(_ context.Context) (*auth.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, auth.ErrNoSession
	}
	if err != nil {
		return nil, oops.Code("SESSION_READ_FAILED").With("path", s.path).Wrap(err)
	}

	var sess auth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, oops.Code("SESSION_CORRUPT").
			With("path", s.path).
			With("parse_error", err.Error()).
			Wrap(auth.ErrCorruptSession)
	}
	if err := sess.Validate(); err != nil {
		return nil, oops.Code("SESSION_CORRUPT").
			With("path", s.path).
			With("validation_error", err.Error()).
			Wrap(auth.ErrCorruptSession)
	}

	return &sess, nil
}

// Save serializes the session and writes it atomically, so a failure mid-write
// never leaves a half-written record behind.
func (s *Store) Save(_ context.Context, sess *auth.Session) error {
	if sess == nil {
		return oops.Code("SESSION_INVALID").Errorf("session cannot be nil")
	}
	if err := sess.Validate(); err != nil {
		return oops.Code("SESSION_INVALID").Wrap(err)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return oops.Code("SESSION_ENCODE_FAILED").Wrap(err)
	}

	if err := xdg.EnsureDir(filepath.Dir(s.path)); err != nil {
		return oops.Code("SESSION_WRITE_FAILED").With("path", s.path).Wrap(err)
	}
	if err := writeFileAtomic(s.path, data, fileMode); err != nil {
		return oops.Code("SESSION_WRITE_FAILED").With("path", s.path).Wrap(err)
	}
	return nil
}

// Clear deletes the persisted record. Deleting an absent record is a no-op.
func (s *Store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oops.Code("SESSION_CLEAR_FAILED").With("path", s.path).Wrap(err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory, fsyncs
// it, and renames it over path. Readers observe either the old record or the
// new one, never a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".playbooks-session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
