// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

package auth

import "github.com/prometheus/client_golang/prometheus"

// Status constants for login metrics.
const (
	StatusSuccess            = "success"
	StatusInvalidCredentials = "invalid_credentials"
	StatusError              = "error"
)

// Outcome constants for session restore metrics.
const (
	RestoreRestored = "restored"
	RestoreNone     = "none"
	RestoreCorrupt  = "corrupt"
)

// LoginAttempts is the counter for login attempts by status.
// Use RegisterMetrics to register this with a Prometheus registry.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "playbooks_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"status"},
)

// SessionRestores is the counter for session restores at startup by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var SessionRestores = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "playbooks_session_restores_total",
		Help: "Total number of persisted session restore attempts",
	},
	[]string{"outcome"},
)

// Logouts is the counter for logout calls.
// Use RegisterMetrics to register this with a Prometheus registry.
var Logouts = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "playbooks_logouts_total",
		Help: "Total number of logouts",
	},
)

// RegisterMetrics registers auth package metrics with the given Prometheus
// registry. Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(SessionRestores)
	reg.MustRegister(Logouts)
}

func recordLogin(status string) {
	LoginAttempts.WithLabelValues(status).Inc()
}

func recordRestore(outcome string) {
	SessionRestores.WithLabelValues(outcome).Inc()
}
