// Package metrics holds the Prometheus collectors shared by the console.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts console requests by route template and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_http_requests_total",
		Help: "Admin console HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration tracks console request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_http_request_duration_seconds",
		Help:    "Admin console HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// UpstreamRequests counts calls to the HackPSU API.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_upstream_requests_total",
		Help: "HackPSU API requests by method, resource and status",
	}, []string{"method", "resource", "status"})

	// UpstreamDuration tracks HackPSU API latency, retries included.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_upstream_request_duration_seconds",
		Help:    "HackPSU API request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
	}, []string{"method", "resource"})

	// CacheLookups counts query cache reads by namespace and result (hit, miss, shared).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_query_cache_lookups_total",
		Help: "Query cache lookups by namespace and result",
	}, []string{"namespace", "result"})

	// CacheInvalidations counts invalidated key prefixes by namespace.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_query_cache_invalidations_total",
		Help: "Query cache prefix invalidations by namespace",
	}, []string{"namespace"})

	// AuditEntries counts audit entries by outcome: queued, logged, persisted or dropped.
	AuditEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_audit_entries_total",
		Help: "Audit entries by outcome",
	}, []string{"outcome"})

	// WSClients is the number of connected invalidation stream clients.
	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "admin_ws_clients",
		Help: "Connected invalidation stream clients",
	})
)
