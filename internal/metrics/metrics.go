// Package metrics holds Prometheus instruments for the configuration
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConfigOverrides = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "config_overrides",
			Help: "Number of configuration leaves currently overridden.",
		})

	ConfigGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "config_generation",
			Help: "Generation of the live configuration snapshot.",
		})

	ConfigChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_changes_total",
			Help: "Cumulative number of applied configuration changes by operation.",
		}, []string{"op"})

	ConfigChangeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_change_errors_total",
			Help: "Cumulative number of rejected or failed configuration changes.",
		}, []string{"op", "reason"})

	ConfigLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "config_load_errors_total",
			Help: "Startup loads that fell back to defaults.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(
		ConfigOverrides,
		ConfigGeneration,
		ConfigChangesTotal,
		ConfigChangeErrorsTotal,
		ConfigLoadErrorsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
