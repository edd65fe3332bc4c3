// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

// Package database opens the application SQLite database and bootstraps its
// schema.
package database

import (
	"database/sql"
	"path/filepath"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"

	"github.com/playbookshq/playbooks/internal/xdg"
)

// FileName is the database file name under the data directory.
const FileName = "playbooks.db"

// DefaultPath returns the default database path in the XDG data dir.
func DefaultPath() string {
	return filepath.Join(xdg.DataDir(), FileName)
}

// Open opens (or creates) the SQLite database at path with foreign-key
// enforcement enabled on every connection.
func Open(path string) (*sql.DB, error) {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").With("path", path).Wrap(err)
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").With("path", path).Wrap(err)
	}

	// SQLite allows a single writer; keep the pool at one connection so the
	// pragmas above apply to every operation.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, oops.Code("DB_OPEN_FAILED").With("path", path).Wrap(err)
	}
	return db, nil
}
