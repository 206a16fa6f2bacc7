package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of handled HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	HTTPRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of handled HTTP requests",
	}, []string{"path", "method", "status"})

	UpstreamRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Count of outbound requests per upstream source",
	}, []string{"source", "operation", "outcome"})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_hits_total",
		Help: "Content cache lookups that returned a live entry",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "content_cache_misses_total",
		Help: "Content cache lookups that found no live entry",
	})

	ArtworkLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "artwork_lookups_total",
		Help: "Metadata artwork lookups by outcome",
	}, []string{"outcome"})
)

// MustRegister registers all collectors with the given registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		HTTPRequestDuration,
		HTTPRequestTotal,
		UpstreamRequestTotal,
		CacheHits,
		CacheMisses,
		ArtworkLookupTotal,
	)
}

// Register wires everything into the default registry. Called once from main.
func Register() {
	MustRegister(prometheus.DefaultRegisterer)
}
