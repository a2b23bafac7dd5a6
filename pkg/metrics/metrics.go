// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notesaas"

var (
	// RPCRequestsTotal counts RPC calls by procedure and HTTP status.
	RPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Total RPC requests by procedure and HTTP status.",
	}, []string{"procedure", "status"})

	// RPCDuration tracks RPC latency by procedure.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "RPC request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// AIGenerationsTotal counts AI note generations by outcome
	// (success, limit_reached, error).
	AIGenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notes",
		Name:      "ai_generations_total",
		Help:      "AI note generation attempts by outcome.",
	}, []string{"outcome"})

	// UsageRolloversTotal counts free plan usage periods rolled over on read.
	UsageRolloversTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "account",
		Name:      "usage_rollovers_total",
		Help:      "Usage periods rolled over for accounts on the initial plan.",
	})

	// WebhookRequestsTotal counts Stripe webhook deliveries by event type and outcome.
	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "billing",
		Name:      "webhook_requests_total",
		Help:      "Stripe webhook requests by event type and outcome.",
	}, []string{"event_type", "outcome"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
