package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationd_searches_total",
			Help: "Total station searches by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	ResolverCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationd_resolver_cache_total",
			Help: "Resolver cache lookups by result",
		},
		[]string{"result"},
	)

	ReadingCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationd_reading_cache_total",
			Help: "Reading cache lookups by result",
		},
		[]string{"result"},
	)

	HRFCOCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationd_hrfco_api_calls_total",
			Help: "Total HRFCO API calls by type and status",
		},
		[]string{"type", "status"},
	)

	HRFCOLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stationd_hrfco_api_latency_seconds",
			Help:    "HRFCO API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	SyntheticReadingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationd_synthetic_readings_total",
			Help: "Readings substituted with demo data after upstream failures",
		},
		[]string{"type"},
	)
)
