package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup sources.
const (
	SourceScrape   = "scrape"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// Lookup outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_input"
	OutcomeUnsupported = "unsupported"
	OutcomeUpstream    = "upstream_error"
)

var (
	// once guards registration; the default registry panics on duplicates.
	once sync.Once

	// LookupsTotal counts finished lookups.
	//
	// labels:
	// - carrier: registered carrier key, or "unsupported" for unknown input
	// - source: scrape, fallback or none
	// - outcome: ok, invalid_input, unsupported or upstream_error
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_lookups_total",
			Help: "Tracking lookups by carrier, source and outcome.",
		},
		[]string{"carrier", "source", "outcome"},
	)

	// UpstreamDurationSeconds observes the carrier page or aggregation API round trip.
	UpstreamDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracking_upstream_duration_seconds",
			Help:    "Latency of carrier page fetches and aggregation API calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"carrier", "source"},
	)

	// HTTPRequestsTotal counts inbound requests by route template and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Inbound HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds observes inbound request latency.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Inbound HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Init registers the collectors with the default registry. Safe to call repeatedly.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			LookupsTotal,
			UpstreamDurationSeconds,
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
		)
	})
}

// ObserveLookup records the outcome of one lookup.
func ObserveLookup(carrier, source, outcome string) {
	LookupsTotal.WithLabelValues(carrier, source, outcome).Inc()
}

// ObserveUpstream records the duration of one outbound round trip.
func ObserveUpstream(carrier, source string, d time.Duration) {
	UpstreamDurationSeconds.WithLabelValues(carrier, source).Observe(d.Seconds())
}
