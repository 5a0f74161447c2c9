package ringcluster

import "github.com/prometheus/client_golang/prometheus"

type counter interface {
	Inc()
}

type noopCounter struct{}

func (noopCounter) Inc() {}

// Metrics is a thin abstraction over Prometheus so Ring can be used with or
// without metrics, mirroring cluster.Metrics.
type Metrics struct {
	notSupported counter
}

// NewMetrics registers Ring's counters on reg and returns a Metrics ready
// to pass to WithMetrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	notSupported := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "radixcluster",
		Subsystem: "ring_cluster",
		Name:      "not_supported_total",
		Help:      "Number of commands rejected as unroutable.",
	})
	reg.MustRegister(notSupported)
	return &Metrics{notSupported: notSupported}
}

func noopMetrics() *Metrics {
	return &Metrics{notSupported: noopCounter{}}
}

func (m *Metrics) incNotSupported() {
	if m != nil {
		m.notSupported.Inc()
	}
}
