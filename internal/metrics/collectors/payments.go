package collectors

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentsCollector counts payment attempts by final state.
type PaymentsCollector struct {
	attempts *prometheus.CounterVec
}

func NewPaymentsCollector() *PaymentsCollector {
	return &PaymentsCollector{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gopay",
				Subsystem: "payments",
				Name:      "attempts_total",
				Help:      "Payment attempts by final state",
			},
			[]string{"state"},
		),
	}
}

// Observe records a finished attempt.
func (c *PaymentsCollector) Observe(state string) {
	c.attempts.WithLabelValues(state).Inc()
}

func (c *PaymentsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.attempts.Describe(ch)
}

func (c *PaymentsCollector) Collect(ch chan<- prometheus.Metric) {
	c.attempts.Collect(ch)
}
