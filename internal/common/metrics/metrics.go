// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidance_source_fetches_total",
			Help: "Total number of remote source fetches by outcome",
		},
		[]string{"source", "outcome"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "guidance_source_fetch_duration_seconds",
			Help: "Duration of individual remote source fetches in seconds",
		},
		[]string{"source"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guidance_cache_hits_total",
			Help: "Total number of payload cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guidance_cache_misses_total",
			Help: "Total number of payload cache misses",
		},
	)

	Loads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidance_loads_total",
			Help: "Total number of daily guidance loads by result",
		},
		[]string{"result"},
	)

	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "guidance_load_duration_seconds",
			Help: "Duration of full daily guidance loads in seconds",
		},
	)

	SupersededDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guidance_superseded_drops_total",
			Help: "Total number of loads dropped because a newer request took over",
		},
	)
)
