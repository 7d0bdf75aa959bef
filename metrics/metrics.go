// Package metrics provides Prometheus metrics for the lookup service.
//   - http_request_total / http_request_duration_seconds / http_request_in_flight: inbound API traffic
//   - upstream_request_total / upstream_request_duration_seconds: calls to the medication and place providers
//   - lookup_result_total: QueryResult variant produced per lookup flow
//   - provider_probe_up: last scheduled probe outcome per provider
//
// All metrics are registered with the Prometheus default registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	UpstreamRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_request_total",
			Help: "Outbound provider requests by outcome",
		},
		[]string{"provider", "outcome"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Outbound provider request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	LookupResultTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_result_total",
			Help: "Lookup results by flow and result status",
		},
		[]string{"flow", "status"},
	)

	ProviderProbeUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "provider_probe_up",
			Help: "1 if the last scheduled probe of the provider succeeded",
		},
		[]string{"provider"},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (clients seen since last cleanup)",
		},
	)

	AddressRegistrySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "address_registry_entries",
			Help: "Number of preferred visit addresses held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		UpstreamRequestTotals,
		UpstreamRequestDuration,
		LookupResultTotals,
		ProviderProbeUp,
		RateLimiterBucketsTotal,
		AddressRegistrySize,
	)
}
