// Package metrics holds the prometheus collectors of the authentication flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sign-in outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// SignIns counts finished sign-in attempts per provider and outcome.
	SignIns = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "authcore_sign_ins_total",
		Help: "Number of sign-in attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	// UsersCreated counts users created on first sign-in.
	UsersCreated = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "authcore_users_created_total",
		Help: "Number of local users created from external identities.",
	})

	// SessionsProjected counts session token checks by result (valid, invalid).
	SessionsProjected = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "authcore_sessions_projected_total",
		Help: "Number of session token verifications by result.",
	}, []string{"result"})
)
