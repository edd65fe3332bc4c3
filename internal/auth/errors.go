// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package auth

import "errors"

// ErrNotFound is returned by a UserRepository when no user matches.
var ErrNotFound = errors.New("not found")

// ErrNoSession is returned by a SessionStore when no record is persisted.
var ErrNoSession = errors.New("no persisted session")

// ErrCorruptSession is returned by a SessionStore when the persisted record
// fails structural parsing. The manager recovers from it locally; it is never
// surfaced to callers.
var ErrCorruptSession = errors.New("corrupt persisted session")

// ErrInvalidCredentials is matched by errors.Is against login failures when
// the email is unknown or the password does not match. The two cases are
// deliberately indistinguishable to prevent account enumeration.
//
// A plain sentinel, not an oops error: oops errors match every other oops
// error under errors.Is, which would make infrastructure failures
// indistinguishable from bad credentials. The AUTH_INVALID_CREDENTIALS code
// is attached where the failure is raised.
var ErrInvalidCredentials = errors.New("invalid credentials")
