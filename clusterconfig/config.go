// Package clusterconfig loads the optional preconfigured partial map: a
// YAML document naming seed nodes and, optionally, the slot ranges they
// already own. It is a convenience loader that sits beside the routing
// core, the way a node's config package sits beside (not inside) its
// routing logic — the core itself never imports this package or knows
// YAML exists.
package clusterconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeSpec describes one seed node to dial at startup.
type NodeSpec struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Alias  string `yaml:"alias"`
	Weight int    `yaml:"weight"`
}

// SlotRange describes a contiguous range of slots a node is already known
// to own, for callers of cluster.Cluster that want to seed the slot map
// without waiting for the first MOVED reply.
type SlotRange struct {
	First int    `yaml:"first"`
	Last  int    `yaml:"last"`
	Node  string `yaml:"node"`
}

// Config is the parsed shape of the YAML document.
type Config struct {
	Nodes []NodeSpec  `yaml:"nodes"`
	Slots []SlotRange `yaml:"slots"`
}

// Load reads and parses the YAML document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("clusterconfig: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML document already in memory, for callers that load
// config from somewhere other than a local file (e.g. a secrets store).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("clusterconfig: parsing document: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every node has a dialable host:port, every alias
// referenced by a slot range actually names a configured node, and that
// every slot range has first >= 0 and last >= first. The upper slot bound
// is not checked here; cluster.Cluster.SetSlots rejects a last past the
// final slot when the range is applied. It does not check for overlapping
// ranges across different nodes — the router itself resolves conflicting
// SetSlots calls by last-writer-wins, so an overlapping config is
// accepted here and simply produces that behavior at load time.
func (c *Config) Validate() error {
	known := make(map[string]struct{}, len(c.Nodes))
	for i, n := range c.Nodes {
		if n.Host == "" {
			return fmt.Errorf("clusterconfig: nodes[%d]: host is required", i)
		}
		if n.Port <= 0 {
			return fmt.Errorf("clusterconfig: nodes[%d]: port must be positive", i)
		}
		known[n.identity()] = struct{}{}
	}
	for i, s := range c.Slots {
		if s.First < 0 || s.Last < s.First {
			return fmt.Errorf("clusterconfig: slots[%d]: invalid range [%d, %d]", i, s.First, s.Last)
		}
		if s.Node == "" {
			return fmt.Errorf("clusterconfig: slots[%d]: node is required", i)
		}
		if _, ok := known[s.Node]; !ok {
			return fmt.Errorf("clusterconfig: slots[%d]: node %q is not among the configured nodes", i, s.Node)
		}
	}
	return nil
}

// identity mirrors conn.Parameters.ID(): alias if set, else host:port. A
// NodeSpec doesn't depend on the conn package so the config loader stays
// free of any dependency on the routing core's own types.
func (n NodeSpec) identity() string {
	if n.Alias != "" {
		return n.Alias
	}
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// EffectiveWeight returns Weight, defaulting to 1 if unset or non-positive,
// matching conn.Parameters.EffectiveWeight's rule.
func (n NodeSpec) EffectiveWeight() int {
	if n.Weight <= 0 {
		return 1
	}
	return n.Weight
}

// ID returns the node's canonical identity: Alias if set, else "host:port".
func (n NodeSpec) ID() string {
	return n.identity()
}
