package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation outcomes
const (
	outcomeSuccess  = "success"
	outcomeError    = "error"
	outcomeDenied   = "denied"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
)

// unknownToolLabel stands in for every name outside the catalog.
const unknownToolLabel = "unknown"

// Metrics records tool invocations.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "firebase_mcp",
			Name:      "tool_invocations_total",
			Help:      "Tool invocations by tool name and outcome.",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "firebase_mcp",
			Name:      "tool_duration_seconds",
			Help:      "Tool invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tool"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.invocations, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(tool, outcome).Inc()
	if tool != unknownToolLabel {
		m.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
	}
}
