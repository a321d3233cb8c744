// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_api_request_count_total",
			Help: "Total number of prompt requests processed",
		},
		[]string{"endpoint", "status"},
	)

	TimeToFirstFragment = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "titan_api_time_to_first_fragment_seconds",
			Help:    "Time to first streamed fragment in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60},
		},
		[]string{"endpoint"},
	)

	StreamFragments = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "titan_api_stream_fragments",
			Help:    "Fragments emitted per streamed request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		},
		[]string{"endpoint"},
	)

	StreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_api_stream_failures_total",
			Help: "Streams ended early, by reason",
		},
		[]string{"reason"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
