package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PlanSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_plan_saves_total",
			Help: "Meal plan persistence attempts by outcome",
		},
		[]string{"outcome"},
	)

	PrepEntriesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prep_entries_active",
			Help: "Prep entries currently tracked across live sessions",
		},
	)
)
