// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

// Package navigate defines the navigation intents the auth core emits.
// Route resolution and rendering belong to the embedding UI layer.
package navigate

import "sync"

// Route identifies a navigation target.
type Route string

// Application routes.
const (
	// RouteHome is the default landing route, signalled on logout.
	RouteHome Route = "/"
	// RouteDashboard is the standard landing route for regular users.
	RouteDashboard Route = "/dashboard"
	// RouteBackoffice is the privileged landing route for admins.
	RouteBackoffice Route = "/backoffice/dashboard"
)

// Navigator consumes navigation intents.
type Navigator interface {
	Navigate(route Route)
}

// Func adapts a function to the Navigator interface.
type Func func(route Route)

// Navigate calls f.
func (f Func) Navigate(route Route) { f(route) }

// Noop is a Navigator that discards all intents.
var Noop Navigator = Func(func(Route) {})

// Recorder is a Navigator that records every intent it receives.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	routes []Route
}

// Navigate records the route.
func (r *Recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

// Routes returns a copy of all recorded routes in order.
func (r *Recorder) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Last returns the most recent route and whether any intent was recorded.
func (r *Recorder) Last() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return "", false
	}
	return r.routes[len(r.routes)-1], true
}
