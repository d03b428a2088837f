// Package metrics constructs the metrics the application will track.
package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bounty"

// Metrics holds the prometheus collectors for the node.
type Metrics struct {
	Requests   *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Errors     *prometheus.CounterVec
	Panics     prometheus.Counter
	Goroutines prometheus.GaugeFunc

	Operations *prometheus.CounterVec
	PaidOut    prometheus.Counter
	Locked     prometheus.Counter
}

// New registers the collectors with the specified registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"method", "status"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Total number of requests that returned an error",
			},
			[]string{"status"},
		),
		Panics: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "panics_total",
				Help:      "Total number of recovered panics",
			},
		),
		Goroutines: factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines",
				Help:      "Number of running goroutines",
			},
			func() float64 { return float64(runtime.NumGoroutine()) },
		),
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "operations_total",
				Help:      "Committed operations by kind",
			},
			[]string{"op"},
		),
		PaidOut: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "paid_out_total",
				Help:      "Units released from escrow to winners",
			},
		),
		Locked: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "locked_total",
				Help:      "Bounty units locked into escrow",
			},
		),
	}
}

// RecordOperation counts a committed operation. Locked and paid are the
// units moved into and out of escrow by it.
func (m *Metrics) RecordOperation(op string, locked uint64, paid uint64) {
	m.Operations.WithLabelValues(op).Inc()

	if locked > 0 {
		m.Locked.Add(float64(locked))
	}
	if paid > 0 {
		m.PaidOut.Add(float64(paid))
	}
}
