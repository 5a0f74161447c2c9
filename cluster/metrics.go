package cluster

import "github.com/prometheus/client_golang/prometheus"

// counter is the minimal capability Metrics needs from a Prometheus
// counter, abstracted out the way Voskan-arena-cache's metricsSink hides
// Prometheus vs. no-op behind a small interface instead of nil-checking a
// concrete *prometheus.Counter everywhere.
type counter interface {
	Inc()
}

type noopCounter struct{}

func (noopCounter) Inc() {}

// Metrics is a thin abstraction over Prometheus so Cluster can be used with
// or without metrics. The hot path (GetConnection on a cache hit) never
// touches these counters, so there is no cost to carrying the no-op sink
// by default.
type Metrics struct {
	moved        counter
	ask          counter
	notSupported counter
	redirectCap  counter
}

// NewMetrics registers Cluster's counters on reg and returns a Metrics
// ready to pass to WithMetrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	moved := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "radixcluster",
		Subsystem: "server_cluster",
		Name:      "moved_total",
		Help:      "Number of MOVED redirections followed.",
	})
	ask := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "radixcluster",
		Subsystem: "server_cluster",
		Name:      "ask_total",
		Help:      "Number of ASK redirections followed.",
	})
	notSupported := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "radixcluster",
		Subsystem: "server_cluster",
		Name:      "not_supported_total",
		Help:      "Number of commands rejected as unroutable.",
	})
	redirectCap := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "radixcluster",
		Subsystem: "server_cluster",
		Name:      "redirect_cap_total",
		Help:      "Number of times the redirection depth cap was hit.",
	})
	reg.MustRegister(moved, ask, notSupported, redirectCap)
	return &Metrics{moved: moved, ask: ask, notSupported: notSupported, redirectCap: redirectCap}
}

func noopMetrics() *Metrics {
	return &Metrics{
		moved:        noopCounter{},
		ask:          noopCounter{},
		notSupported: noopCounter{},
		redirectCap:  noopCounter{},
	}
}

func (m *Metrics) incMoved() {
	if m != nil {
		m.moved.Inc()
	}
}

func (m *Metrics) incAsk() {
	if m != nil {
		m.ask.Inc()
	}
}

func (m *Metrics) incNotSupported() {
	if m != nil {
		m.notSupported.Inc()
	}
}

func (m *Metrics) incRedirectCap() {
	if m != nil {
		m.redirectCap.Inc()
	}
}
