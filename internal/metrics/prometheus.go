package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the prediction league service

var (
	// Document store metrics
	StoreCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predleague_store_calls_total",
			Help: "Total number of document store calls",
		},
		[]string{"operation", "status"},
	)

	StoreCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predleague_store_call_duration_seconds",
			Help:    "Duration of document store HTTP calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predleague_store_conflicts_total",
			Help: "Total number of writes rejected for a stale revision",
		},
	)

	WriteRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predleague_write_retries_total",
			Help: "Total number of read-modify-write retries after a conflict",
		},
	)

	// Scoring metrics
	LeaderboardComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "predleague_leaderboard_compute_duration_seconds",
			Help:    "Duration of full leaderboard computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	WeeksReconciledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predleague_weeks_reconciled_total",
			Help: "Total number of weekly reconciliations performed",
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predleague_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predleague_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
