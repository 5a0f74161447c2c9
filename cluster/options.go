package cluster

import (
	"go.uber.org/zap"

	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/routing"
)

// Option configures a Cluster at construction time, following the
// functional-option pattern the teacher pack uses for cache and node
// configuration (Voskan-arena-cache's WithLogger/WithMetrics).
type Option func(*Cluster)

// WithLogger plugs an external zap.Logger. The router never logs on the
// per-command hot path; only topology changes and redirection-cap trips
// are logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cluster) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables the Prometheus-backed metrics sink. Passing nil
// leaves the default no-op sink in place.
func WithMetrics(m *Metrics) Option {
	return func(c *Cluster) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithCommandTable overrides the default routing descriptor table, for
// callers that speak a command set beyond command.DefaultTable.
func WithCommandTable(table map[string]command.Descriptor) Option {
	return func(c *Cluster) {
		if table != nil {
			c.table = table
			c.extractor = routing.ServerExtractor{Table: table}
		}
	}
}
