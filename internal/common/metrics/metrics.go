// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ask_queries_total",
			Help: "Total number of /ask queries by answer source and category",
		},
		[]string{"source", "category"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ask_query_duration_seconds",
			Help: "Duration of query pipeline execution in seconds",
		},
		[]string{"source"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	StoreDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_degradations_total",
			Help: "Storage failures absorbed by graceful degradation",
		},
		[]string{"operation"},
	)

	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_total",
			Help: "Answer feedback submissions by judgment",
		},
		[]string{"feedback"},
	)
)
