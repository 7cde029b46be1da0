package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "react_ssr_render_duration_seconds",
			Help:    "Time spent rendering and assembling a page",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"page"},
	)

	RenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "react_ssr_render_errors_total",
			Help: "Total number of failed page renders",
		},
		[]string{"page", "kind"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "react_ssr_cache_lookups_total",
			Help: "Render cache lookups by result",
		},
		[]string{"result"},
	)

	Responses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "react_ssr_responses_total",
			Help: "Page responses by status code",
		},
		[]string{"page", "status"},
	)
)
