// Package metrics defines eventbot's Prometheus instrumentation. The
// Metrics value is constructed once in main against an explicit registry
// and injected where needed; there is no package-level state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds eventbot's counters.
type Metrics struct {
	// UncaughtExceptions counts panics recovered at the HTTP boundary,
	// labeled by exception class.
	UncaughtExceptions *prometheus.CounterVec

	// EventsHandled counts inbound webhook events, labeled by kind.
	EventsHandled *prometheus.CounterVec
}

// New registers eventbot's counters with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UncaughtExceptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventbot_uncaught_exceptions_total",
			Help: "Errors that escaped all handlers and were converted to HTTP 500.",
		}, []string{"exception"}),
		EventsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventbot_events_handled_total",
			Help: "Inbound webhook events dispatched, by event kind.",
		}, []string{"kind"}),
	}
}
