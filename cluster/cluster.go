// Package cluster implements the server-authoritative sharding router: it
// holds the slot -> connection map, routes commands by CRC16 slot, and
// transparently follows MOVED/ASK redirections the server sends back.
//
// Cluster is not internally synchronized. A command does not return
// control until it has produced a reply or raised; all suspension happens
// inside the delegated connection's I/O, never in the routing logic
// itself. Callers must serialize access to a single Cluster instance the
// same way they'd serialize access to any non-thread-safe collection.
package cluster

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	radixcluster "github.com/kevwan/radixcluster"
	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/conn"
	"github.com/kevwan/radixcluster/crc16"
	"github.com/kevwan/radixcluster/routing"
)

// maxRedirectDepth bounds how many chained MOVED/ASK hops a single
// executeCommand call will follow before giving up with a ClientException.
// The source this core is modeled on left this unbounded; 16 is this
// implementation's chosen cap (spec's suggested value).
const maxRedirectDepth = 16

// Cluster routes commands across a server-authoritative sharded pool. The
// zero value is not usable; construct one with New.
type Cluster struct {
	pool  map[string]conn.Connection
	order []string // insertion order, for deterministic Iterate()

	slotsMap [crc16.NumSlots]string     // slot -> connection id, "" = unknown
	slots    map[uint16]conn.Connection // slot -> connection handle, memoized

	extractor routing.ServerExtractor
	table     map[string]command.Descriptor

	factory *conn.Factory
	scheme  string

	rng *rand.Rand

	logger  *zap.Logger
	metrics *Metrics

	stats Stats
}

// New constructs an empty Cluster. The factory and scheme are used only
// when a MOVED/ASK reply references a host:port this Cluster hasn't seen
// before; callers that never expect unseen nodes may pass a nil factory,
// in which case such a redirection fails with a ClientException instead of
// silently guessing.
func New(factory *conn.Factory, scheme string, opts ...Option) *Cluster {
	c := &Cluster{
		pool:      make(map[string]conn.Connection),
		slots:     make(map[uint16]conn.Connection),
		extractor: routing.ServerExtractor{Table: command.DefaultTable},
		table:     command.DefaultTable,
		factory:   factory,
		scheme:    scheme,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    zap.NewNop(),
		metrics:   noopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cluster) hash(b []byte) uint32 {
	return uint32(crc16.Slot(b))
}

// Add inserts conn into the pool, keyed by its canonical id. Adding a
// connection whose id is already present replaces the old one; the slot
// cache is left untouched, since a stale cache entry self-corrects on the
// next MOVED.
func (c *Cluster) Add(cn conn.Connection) error {
	id := cn.Parameters().ID()
	if _, exists := c.pool[id]; !exists {
		c.order = append(c.order, id)
	}
	c.pool[id] = cn
	c.logger.Info("cluster: connection added", zap.String("id", id))
	return nil
}

// Remove drops conn from the pool. It does not invalidate slot cache
// entries pointing to it; they are corrected lazily on the next MOVED for
// that slot, per the spec's shared-resource policy. It does not close
// conn — that's the caller's responsibility.
func (c *Cluster) Remove(cn conn.Connection) error {
	return c.RemoveById(cn.Parameters().ID())
}

// RemoveById drops the connection with the given id from the pool, if any.
func (c *Cluster) RemoveById(id string) error {
	if _, ok := c.pool[id]; !ok {
		return nil
	}
	delete(c.pool, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.logger.Info("cluster: connection removed", zap.String("id", id))
	return nil
}

// GetConnectionById returns the pooled connection with the given id.
func (c *Cluster) GetConnectionById(id string) (conn.Connection, bool) {
	cn, ok := c.pool[id]
	return cn, ok
}

// Count returns the number of connections currently in the pool.
func (c *Cluster) Count() int {
	return len(c.pool)
}

// Iterate returns every pooled connection in insertion order. Used by
// admin tooling that needs to walk the whole cluster (e.g. broadcast a
// CONFIG command); not used by routing itself.
func (c *Cluster) Iterate() []conn.Connection {
	out := make([]conn.Connection, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.pool[id])
	}
	return out
}

// Connect opens every pooled connection, stopping at the first error.
func (c *Cluster) Connect() error {
	for _, id := range c.order {
		if err := c.pool[id].Connect(); err != nil {
			return err
		}
	}
	return nil
}

// Disconnect closes every pooled connection, stopping at the first error.
func (c *Cluster) Disconnect() error {
	for _, id := range c.order {
		if err := c.pool[id].Disconnect(); err != nil {
			return err
		}
	}
	return nil
}

// IsConnected reports whether every pooled connection is currently
// connected. A Cluster with no connections is not considered connected.
func (c *Cluster) IsConnected() bool {
	if len(c.pool) == 0 {
		return false
	}
	for _, id := range c.order {
		if !c.pool[id].IsConnected() {
			return false
		}
	}
	return true
}

// SetSlots bulk-asserts that slots [first, last] belong to the connection
// with the given id, overwriting any prior mapping. Both endpoints must lie
// in [0, crc16.NumSlots), and last must be >= first. The source this is
// modeled on validated against [0, 4095] — a bug, since the server actually
// uses 16384 slots; this implementation uses the correct bound.
func (c *Cluster) SetSlots(first, last int, id string) error {
	if first < 0 || last >= crc16.NumSlots || last < first {
		return newValidationError(first, last)
	}
	for slot := first; slot <= last; slot++ {
		c.slotsMap[slot] = id
		delete(c.slots, uint16(slot))
	}
	return nil
}

// GetConnection routes cmd: if it already carries a routing hash that hash
// is trusted as-is; otherwise the key extractor computes one and memoizes
// it on cmd. Returns ErrNotSupported if cmd cannot be routed at all, and a
// ClientException if the pool has no connections to route to.
func (c *Cluster) GetConnection(cmd command.Command) (conn.Connection, error) {
	if len(c.order) == 0 {
		return nil, radixcluster.NewClientException("cluster has no connections")
	}
	hash, err := c.hashFor(cmd)
	if err != nil {
		return nil, err
	}
	return c.connectionForSlot(uint16(hash % crc16.NumSlots)), nil
}

func (c *Cluster) hashFor(cmd command.Command) (uint32, error) {
	if h, ok := cmd.Hash(); ok {
		return h, nil
	}
	h, ok := c.extractor.GetHash(c.hash, cmd)
	if !ok {
		c.metrics.incNotSupported()
		c.stats.NotSupported++
		return 0, radixcluster.ErrNotSupported
	}
	cmd.SetHash(h)
	return h, nil
}

// connectionForSlot resolves a slot to a connection: cache hit, else
// slot-map hit (resolved and cached), else a uniformly random pooled
// connection (cached under a guess the server will correct via MOVED).
func (c *Cluster) connectionForSlot(slot uint16) conn.Connection {
	if cn, ok := c.slots[slot]; ok {
		return cn
	}
	if id := c.slotsMap[slot]; id != "" {
		if cn, ok := c.pool[id]; ok {
			c.slots[slot] = cn
			return cn
		}
	}
	cn := c.randomConnection()
	if cn != nil {
		c.slots[slot] = cn
	}
	return cn
}

func (c *Cluster) randomConnection() conn.Connection {
	if len(c.order) == 0 {
		return nil
	}
	return c.pool[c.order[c.rng.Intn(len(c.order))]]
}

// GetConnectionByKey resolves the connection that owns the slot key hashes
// to, ignoring descriptors entirely. Used by callers that want to pin an
// operation to a specific key's shard without going through a Command.
func (c *Cluster) GetConnectionByKey(key []byte) (conn.Connection, error) {
	if len(c.order) == 0 {
		return nil, radixcluster.NewClientException("cluster has no connections")
	}
	slot := uint16(c.extractor.GetKeyHash(c.hash, key) % crc16.NumSlots)
	return c.connectionForSlot(slot), nil
}

// Stats is a point-in-time snapshot of routing activity, exposed for
// observability since a routing core that silently absorbs redirections
// with no visible counters would be awkward to operate in production.
type Stats struct {
	Moved        uint64
	Ask          uint64
	NotSupported uint64
	RedirectCap  uint64
}

// Stats returns a copy of the current counters.
func (c *Cluster) Stats() Stats {
	return c.stats
}
