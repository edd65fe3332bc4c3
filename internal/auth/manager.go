// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/playbookshq/playbooks/internal/navigate"
)

// State is the lifecycle state of the session manager.
type State int

// Manager lifecycle states.
const (
	// StateInitializing is the state before Init has restored (or failed to
	// restore) a persisted session.
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Manager owns the authenticated-identity lifecycle for one client process.
//
// There is a single logical session owner per process; the internal mutex
// only guarantees memory safety when Login calls overlap. Overlapping logins
// are not de-duplicated: both run, and the last one to complete wins.
type Manager struct {
	users  UserRepository
	hasher PasswordHasher
	store  SessionStore
	nav    navigate.Navigator
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	session *Session
	lastErr error
}

// NewManager creates a Manager in the Initializing state.
func NewManager(users UserRepository, hasher PasswordHasher, store SessionStore, nav navigate.Navigator) (*Manager, error) {
	return NewManagerWithLogger(users, hasher, store, nav, slog.Default())
}

// NewManagerWithLogger creates a Manager with an explicit logger.
func NewManagerWithLogger(users UserRepository, hasher PasswordHasher, store SessionStore, nav navigate.Navigator, logger *slog.Logger) (*Manager, error) {
	if users == nil {
		return nil, oops.Code("AUTH_WIRING_INVALID").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_WIRING_INVALID").Errorf("password hasher is required")
	}
	if store == nil {
		return nil, oops.Code("AUTH_WIRING_INVALID").Errorf("session store is required")
	}
	if nav == nil {
		return nil, oops.Code("AUTH_WIRING_INVALID").Errorf("navigator is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_WIRING_INVALID").Errorf("logger is required")
	}
	return &Manager{
		users:  users,
		hasher: hasher,
		store:  store,
		nav:    nav,
		logger: logger,
		state:  StateInitializing,
	}, nil
}

// Init attempts to restore a persisted session, transitioning the manager out
// of the Initializing state. A malformed persisted record is treated as
// absent: the stored value is discarded and the state becomes
// Unauthenticated. Init never fails; it runs once, and later calls are no-ops.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInitializing {
		return
	}

	sess, err := m.store.Load(ctx)
	switch {
	case err == nil:
		m.session = sess
		m.state = StateAuthenticated
		recordRestore(RestoreRestored)
		m.logger.Debug("session restored", "email", sess.Email, "role", string(sess.Role))
	case errors.Is(err, ErrNoSession):
		m.state = StateUnauthenticated
		recordRestore(RestoreNone)
	default:
		// Corrupt or unreadable record: discard it and start unauthenticated.
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Warn("failed to clear corrupt session record", "error", clearErr)
		}
		m.state = StateUnauthenticated
		recordRestore(RestoreCorrupt)
		m.logger.Warn("discarded unreadable persisted session", "error", err)
	}
}

// Login verifies the credentials and, on success, establishes and persists a
// session and signals a role-dependent navigation intent.
//
// Unknown email and wrong password both fail with ErrInvalidCredentials; the
// error is recorded for display and returned to the caller. A failed login
// leaves any previously established session untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.lastErr = nil
	m.mu.Unlock()

	user, lookupErr := m.users.GetByEmail(ctx, email)

	// Verify against a dummy hash when the user is absent so response time
	// does not reveal whether the account exists.
	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return m.fail(StatusError, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr))
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := m.hasher.Verify(password, targetHash)
	if verifyErr != nil && userExists {
		return m.fail(StatusError, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr))
	}

	if !userExists || !valid {
		return m.fail(StatusInvalidCredentials,
			oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials))
	}

	// Recompute a legacy hash after a successful verify. Best effort: login
	// succeeds even if the update fails.
	if m.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := m.hasher.Hash(password); hashErr == nil {
			if updErr := m.users.UpdatePasswordHash(ctx, user.ID, newHash); updErr != nil {
				m.logger.Warn("password hash upgrade failed", "error", updErr)
			}
		}
	}

	// The session carries identity only, never the password hash.
	sess := &Session{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return m.fail(StatusError, oops.Code("AUTH_SESSION_PERSIST_FAILED").
			With("operation", "persist session").
			Wrap(err))
	}

	m.mu.Lock()
	m.session = sess
	m.state = StateAuthenticated
	m.lastErr = nil
	m.mu.Unlock()

	recordLogin(StatusSuccess)
	m.logger.Info("login succeeded", "email", sess.Email, "role", string(sess.Role))

	if sess.Role == RoleAdmin {
		m.nav.Navigate(navigate.RouteBackoffice)
	} else {
		m.nav.Navigate(navigate.RouteDashboard)
	}

	return nil
}

// Logout clears the in-memory session and error state, deletes the persisted
// record, and signals navigation to the default landing route. Calling it
// while already unauthenticated is a no-op apart from the navigation signal.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.session = nil
	m.lastErr = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to delete persisted session", "error", err)
	}

	Logouts.Inc()
	m.nav.Navigate(navigate.RouteHome)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether a session is present. Derived from the
// current session, never cached separately.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// IsAdmin reports whether a session is present with the admin role.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && m.session.Role == RoleAdmin
}

// Session returns a copy of the current session, if any. Consumers never get
// a mutable reference to the manager-owned record.
func (m *Manager) Session() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Err returns the error recorded by the most recent failed login, or nil.
// A successful login and Logout both clear it.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// fail records err for display, counts it, and returns it to the caller.
// Session state is deliberately left untouched: only an explicit Logout
// clears a previously established session.
func (m *Manager) fail(status string, err error) error {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
	recordLogin(status)
	m.logger.Debug("login failed", "error", err)
	return err
}
