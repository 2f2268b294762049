// Package metrics collects Prometheus metrics for the API client and the
// identity flows.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements the request and flow recorder hooks exposed by the
// tmdb client and the auth store. A nil *Collector is safe to pass around;
// its methods are no-ops.
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency prometheus.Histogram
	authFlows      *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screenpass_api_requests_total",
			Help: "API requests by path and HTTP status code.",
		}, []string{"path", "status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screenpass_api_request_duration_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		authFlows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screenpass_auth_flows_total",
			Help: "Identity flow completions by flow and outcome.",
		}, []string{"flow", "outcome"}),
	}
	reg.MustRegister(c.requests, c.requestLatency, c.authFlows)
	return c
}

// RecordRequest counts one dispatched API request. A status of 0 means the
// request never produced a response.
func (c *Collector) RecordRequest(path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthFlow counts one finished identity flow.
func (c *Collector) RecordAuthFlow(flow, outcome string) {
	if c == nil {
		return
	}
	c.authFlows.WithLabelValues(flow, outcome).Inc()
}
