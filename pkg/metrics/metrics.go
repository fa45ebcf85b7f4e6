package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Session metrics
	LoginAttempts  *prometheus.CounterVec
	ActiveSessions prometheus.Gauge

	// License metrics
	QuotaChanges *prometheus.CounterVec
	SeatsInUse   *prometheus.GaugeVec

	// Chat metrics
	ChatMessagesPublished prometheus.Counter
	ChatPublishFailures   prometheus.Counter

	// AI drafting metrics
	DraftRequests  prometheus.Counter
	DraftFallbacks prometheus.Counter
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "login_attempts_total",
			Help:      "Login attempts partitioned by kind and outcome",
		}, []string{"kind", "outcome"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_sessions",
			Help:      "Number of currently valid sessions",
		}),
		QuotaChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "license_quota_changes_total",
			Help:      "License quota increments and decrements by role",
		}, []string{"role", "direction"}),
		SeatsInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "license_seats_in_use",
			Help:      "Occupied staff seats by role",
		}, []string{"role"}),
		ChatMessagesPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_messages_published_total",
			Help:      "Chat messages fanned out to the broker",
		}),
		ChatPublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "chat_publish_failures_total",
			Help:      "Chat broker publish failures",
		}),
		DraftRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evolution_draft_requests_total",
			Help:      "AI evolution draft requests",
		}),
		DraftFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evolution_draft_fallbacks_total",
			Help:      "Draft requests answered with the fixed fallback text",
		}),
	}
}
