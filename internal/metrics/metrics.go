package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ledger metrics
	ProgressUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_progress_updates_total",
			Help: "Total number of progress update requests",
		},
		[]string{"result"}, // accepted, rejected, failed
	)

	Completions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellness_completions_total",
			Help: "Total number of activities crossing into completion",
		},
	)

	CompletionWalkbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellness_completion_walkbacks_total",
			Help: "Total number of completed activities moved back below 100%",
		},
	)

	DailyResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellness_daily_resets_total",
			Help: "Total number of stale daily progress buckets reset",
		},
	)

	// Mood metrics
	MoodEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellness_mood_entries_total",
			Help: "Total number of mood entries recorded",
		},
		[]string{"mood"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)
