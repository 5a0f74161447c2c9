package ringcluster

import (
	"go.uber.org/zap"

	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/routing"
)

// Option configures a Ring at construction time.
type Option func(*Ring)

// WithLogger plugs an external zap.Logger. The router never logs on the
// per-command hot path; only pool membership changes are logged.
func WithLogger(l *zap.Logger) Option {
	return func(r *Ring) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics enables the Prometheus-backed metrics sink. Passing nil
// leaves the default no-op sink in place.
func WithMetrics(m *Metrics) Option {
	return func(r *Ring) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithCommandTable overrides the default routing descriptor table, for
// callers that speak a command set beyond command.DefaultTable.
func WithCommandTable(table map[string]command.Descriptor) Option {
	return func(r *Ring) {
		if table != nil {
			r.table = table
			r.extractor = routing.ClientExtractor{Table: table}
		}
	}
}
