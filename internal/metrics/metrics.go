// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attestation_records_total",
			Help: "Total number of ingested raw records",
		},
		[]string{"course", "period", "record_type"},
	)

	ComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attestation_computations_total",
			Help: "Total number of attestation computations",
		},
		[]string{"course", "period", "scope"},
	)

	TotalScoreHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attestation_total_score",
			Help:    "Distribution of computed total scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"course", "period"},
	)

	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attestation_snapshots_total",
			Help: "Total number of score snapshots taken",
		},
		[]string{"course", "period"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
