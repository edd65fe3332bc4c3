// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package auth

import "context"

type managerContextKey struct{}

// WithManager attaches the session manager to ctx so consuming views can
// reach it via FromContext.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerContextKey{}, m)
}

// FromContext returns the session manager attached to ctx.
//
// Calling it outside a WithManager scope is a wiring defect, not a runtime
// data error, so it panics rather than returning an error.
func FromContext(ctx context.Context) *Manager {
	m, ok := ctx.Value(managerContextKey{}).(*Manager)
	if !ok {
		panic("auth: FromContext called outside a WithManager scope")
	}
	return m
}
