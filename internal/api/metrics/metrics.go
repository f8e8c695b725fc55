// Package metrics defines and registers all custom Prometheus metrics for the
// voting API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; /metrics exposes them alongside the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voting"

// ── Vote metrics ──────────────────────────────────────────────────────────────

// VotesCastTotal counts ballots recorded successfully.
var VotesCastTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of ballots recorded.",
	},
)

// VotesRejectedTotal counts ballots that were refused.
// Label:
//   - reason: "already_voted", "election_closed", "not_found", "in_progress", "invalid", "error"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of ballots rejected, by reason.",
	},
	[]string{"reason"},
)

// VoteDuration measures end-to-end CastVote latency.
// Label:
//   - outcome: "recorded" or "rejected"
var VoteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "vote_duration_seconds",
		Help:      "Duration of vote casting from request to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_found", "locked", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts new accounts, by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// ── Election metrics ──────────────────────────────────────────────────────────

// ElectionsCreatedTotal counts elections created by admins.
var ElectionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "elections_created_total",
		Help:      "Total number of elections created.",
	},
)

// ElectionsClosedTotal counts endElection calls that closed an election.
var ElectionsClosedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "elections_closed_total",
		Help:      "Total number of elections closed.",
	},
)

// CandidatesAddedTotal counts candidates attached to elections.
var CandidatesAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_added_total",
		Help:      "Total number of candidates added to elections.",
	},
)
