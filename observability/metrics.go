// Package observability holds the Prometheus domain metrics and the
// OpenTelemetry tracing bootstrap. HTTP-level request metrics come from the
// fiberprometheus middleware; the counters here cover domain events.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesRecorded counts durable ledger writes by outcome ("created" or
	// "updated"). Rejected duplicates are not counted.
	VotesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vayam_votes_recorded_total",
		Help: "Total number of votes written to the ledger by outcome",
	}, []string{"status"})

	// CommentsCreated counts accepted comment submissions.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vayam_comments_created_total",
		Help: "Total number of comments created",
	})

	// FlagsRaised counts comments moved into moderation review.
	FlagsRaised = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vayam_comment_flags_total",
		Help: "Total number of comments flagged for moderation review",
	})

	// NotificationFailures counts failed notice deliveries by recipient role.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vayam_notification_failures_total",
		Help: "Total number of failed notification deliveries by recipient role",
	}, []string{"role"})
)
