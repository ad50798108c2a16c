// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package metrics defines the Prometheus instruments exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API request metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_api_requests_total",
			Help: "Total API requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinegraph_api_request_duration_seconds",
			Help:    "API request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinegraph_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Metadata provider client metrics.
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_tmdb_requests_total",
			Help: "Total metadata provider requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	TMDBCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_tmdb_cache_hits_total",
			Help: "Movie detail cache hits",
		},
	)

	TMDBCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_tmdb_cache_misses_total",
			Help: "Movie detail cache misses",
		},
	)

	TMDBBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinegraph_tmdb_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
	)

	// Notification fan-out metrics.
	NotifySubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinegraph_notify_subscribers",
			Help: "Number of live notification subscriber channels",
		},
	)

	NotifyPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_notify_published_total",
			Help: "Notifications pushed to subscriber channels",
		},
	)

	NotifyDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_notify_dropped_total",
			Help: "Notifications dropped due to full subscriber buffers",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
