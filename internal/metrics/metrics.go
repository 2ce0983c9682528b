package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investdash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "investdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investdash_upstream_calls_total",
			Help: "Total number of calls to the platform API",
		},
		[]string{"path", "outcome"},
	)

	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investdash_transfers_total",
			Help: "Total number of wallet transfer submissions",
		},
		[]string{"outcome"},
	)

	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investdash_claims_total",
			Help: "Total number of income claim submissions",
		},
		[]string{"source", "outcome"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investdash_purchases_total",
			Help: "Total number of plan purchase submissions",
		},
		[]string{"outcome"},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "investdash_cache_hits_total",
			Help: "Session display cache hits and misses",
		},
		[]string{"collection", "result"},
	)

	SessionExpiriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "investdash_session_expiries_total",
			Help: "Total number of upstream session expiries",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordUpstreamCall(path, outcome string) {
	UpstreamCallsTotal.WithLabelValues(path, outcome).Inc()
}

func RecordTransfer(outcome string) {
	TransfersTotal.WithLabelValues(outcome).Inc()
}

func RecordClaim(source, outcome string) {
	ClaimsTotal.WithLabelValues(source, outcome).Inc()
}

func RecordPurchase(outcome string) {
	PurchasesTotal.WithLabelValues(outcome).Inc()
}

func RecordCacheLookup(collection, result string) {
	CacheHitsTotal.WithLabelValues(collection, result).Inc()
}

func RecordSessionExpiry() {
	SessionExpiriesTotal.Inc()
}
