// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var RequestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "How many HTTP requests processed, partitioned by status code, method and route.",
	},
	[]string{"code", "method", "route"},
)

var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "route"},
)

var EstimatesComputed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "estimates_computed_total",
		Help: "Price estimates computed, partitioned by category.",
	},
	[]string{"category"},
)

var LeadsSubmitted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leads_submitted_total",
		Help: "Project requests submitted, partitioned by outcome.",
	},
	[]string{"result"},
)

var PortfolioWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portfolio_writes_total",
		Help: "Admin portfolio writes, partitioned by operation and outcome.",
	},
	[]string{"op", "result"},
)

var collectors = []prometheus.Collector{
	RequestCount,
	RequestDuration,
	EstimatesComputed,
	LeadsSubmitted,
	PortfolioWrites,
}

// Register registers every collector with reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("could not register %v with Prometheus: %w", c, err)
		}
	}
	return nil
}

// Result turns an error into the outcome label used by the counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
