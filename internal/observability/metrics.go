package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultagent_queries_total",
			Help: "Total number of processed queries",
		},
		[]string{"outcome"},
	)

	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaultagent_query_duration_seconds",
			Help:    "Query processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	llmRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultagent_llm_requests_total",
			Help: "Total number of LLM chat-completion requests",
		},
		[]string{"stage", "status"},
	)

	toolDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultagent_tool_dispatch_total",
			Help: "Total number of tool dispatches",
		},
		[]string{"tool", "status"},
	)

	toolDispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vaultagent_tool_dispatch_duration_seconds",
			Help:    "Tool dispatch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	initOnce sync.Once
)

// InitMetrics registers the Prometheus collectors.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			queriesTotal,
			queryDuration,
			llmRequestsTotal,
			toolDispatchTotal,
			toolDispatchDuration,
		)
	})
}

// MetricsHandler returns the Prometheus exposition handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordQuery records one processed query.
func RecordQuery(outcome string, duration time.Duration) {
	queriesTotal.WithLabelValues(outcome).Inc()
	queryDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordLLMRequest records one chat-completion request.
func RecordLLMRequest(stage, status string) {
	llmRequestsTotal.WithLabelValues(stage, status).Inc()
}

// RecordToolDispatch records one tool dispatch.
func RecordToolDispatch(tool, status string, duration time.Duration) {
	toolDispatchTotal.WithLabelValues(tool, status).Inc()
	toolDispatchDuration.WithLabelValues(tool).Observe(duration.Seconds())
}
