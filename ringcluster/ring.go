// Package ringcluster implements the client-side sharding router: nodes
// sit on a consistent-hash ring, and a command's routing key picks a node
// entirely on the client — there is no server-authoritative slot map and
// no MOVED/ASK to follow. A server error is passed straight back to the
// caller unchanged.
//
// Ring is not internally synchronized, matching cluster.Cluster; callers
// serialize access the same way.
package ringcluster

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	radixcluster "github.com/kevwan/radixcluster"
	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/conn"
	"github.com/kevwan/radixcluster/ring"
	"github.com/kevwan/radixcluster/routing"
)

// Ring routes commands across a client-sharded pool using a consistent-hash
// ring over the pooled connections. The zero value is not usable;
// construct one with New.
type Ring struct {
	pool  map[string]conn.Connection
	order []string

	hashring *ring.Ring

	extractor routing.ClientExtractor
	table     map[string]command.Descriptor

	rng *rand.Rand

	logger  *zap.Logger
	metrics *Metrics

	stats Stats
}

// New constructs an empty Ring.
func New(opts ...Option) *Ring {
	r := &Ring{
		pool:      make(map[string]conn.Connection),
		hashring:  ring.New(),
		extractor: routing.ClientExtractor{Table: command.DefaultTable},
		table:     command.DefaultTable,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    zap.NewNop(),
		metrics:   noopMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Ring) hash(b []byte) uint32 {
	return ring.HashKey(b)
}

// node resolves a ring hash to the connection owning it, or nil if the
// ring is empty. It is passed to the client extractor as a routing.NodeFunc
// so the extractor's all-keys check can compare node identity.
func (r *Ring) node(hash uint32) any {
	if r.hashring.Len() == 0 {
		return nil
	}
	id := r.hashring.Get(hash).(string)
	return r.pool[id]
}

// Add inserts cn into the pool and places it on the ring, weighted by its
// Parameters().EffectiveWeight(). Adding a connection whose id is already
// present replaces the pooled connection but leaves its ring placement
// untouched (same identity, same positions).
func (r *Ring) Add(cn conn.Connection) error {
	id := cn.Parameters().ID()
	if _, exists := r.pool[id]; !exists {
		r.order = append(r.order, id)
		r.hashring.Add(id, id, cn.Parameters().EffectiveWeight())
	}
	r.pool[id] = cn
	r.logger.Info("ringcluster: connection added", zap.String("id", id))
	return nil
}

// Remove drops cn from both the pool and the ring. It does not close cn —
// that's the caller's responsibility.
func (r *Ring) Remove(cn conn.Connection) error {
	return r.RemoveById(cn.Parameters().ID())
}

// RemoveById drops the connection with the given id from the pool and the
// ring, if present.
func (r *Ring) RemoveById(id string) error {
	if _, ok := r.pool[id]; !ok {
		return nil
	}
	delete(r.pool, id)
	r.hashring.Remove(id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("ringcluster: connection removed", zap.String("id", id))
	return nil
}

// GetConnectionById returns the pooled connection with the given id.
func (r *Ring) GetConnectionById(id string) (conn.Connection, bool) {
	cn, ok := r.pool[id]
	return cn, ok
}

// Count returns the number of connections currently in the pool.
func (r *Ring) Count() int {
	return len(r.pool)
}

// Iterate returns every pooled connection in insertion order.
func (r *Ring) Iterate() []conn.Connection {
	out := make([]conn.Connection, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pool[id])
	}
	return out
}

// Connect opens every pooled connection, stopping at the first error.
func (r *Ring) Connect() error {
	for _, id := range r.order {
		if err := r.pool[id].Connect(); err != nil {
			return err
		}
	}
	return nil
}

// Disconnect closes every pooled connection, stopping at the first error.
func (r *Ring) Disconnect() error {
	for _, id := range r.order {
		if err := r.pool[id].Disconnect(); err != nil {
			return err
		}
	}
	return nil
}

// IsConnected reports whether every pooled connection is currently
// connected. A Ring with no connections is not considered connected.
func (r *Ring) IsConnected() bool {
	if len(r.pool) == 0 {
		return false
	}
	for _, id := range r.order {
		if !r.pool[id].IsConnected() {
			return false
		}
	}
	return true
}

// GetConnection routes cmd: if it already carries a routing hash that hash
// is trusted as-is; otherwise the key extractor computes one and memoizes
// it on cmd. Returns ErrNotSupported if cmd cannot be routed at all, and a
// ClientException if the ring has no nodes.
func (r *Ring) GetConnection(cmd command.Command) (conn.Connection, error) {
	if r.hashring.Len() == 0 {
		return nil, radixcluster.NewClientException("ring has no nodes")
	}
	hash, err := r.hashFor(cmd)
	if err != nil {
		return nil, err
	}
	return r.connectionForHash(hash), nil
}

func (r *Ring) hashFor(cmd command.Command) (uint32, error) {
	if h, ok := cmd.Hash(); ok {
		return h, nil
	}
	h, ok := r.extractor.GetHash(r.hash, r.node, cmd)
	if !ok {
		r.metrics.incNotSupported()
		r.stats.NotSupported++
		return 0, radixcluster.ErrNotSupported
	}
	cmd.SetHash(h)
	return h, nil
}

func (r *Ring) connectionForHash(hash uint32) conn.Connection {
	id := r.hashring.Get(hash).(string)
	return r.pool[id]
}

// GetConnectionByKey resolves the connection that owns the ring position
// key hashes to, ignoring descriptors entirely.
func (r *Ring) GetConnectionByKey(key []byte) (conn.Connection, error) {
	if r.hashring.Len() == 0 {
		return nil, radixcluster.NewClientException("ring has no nodes")
	}
	hash := r.extractor.GetKeyHash(r.hash, key)
	return r.connectionForHash(hash), nil
}

// WriteCommand routes cmd and writes it to the chosen connection, without
// reading a response.
func (r *Ring) WriteCommand(cmd command.Command) error {
	cn, err := r.GetConnection(cmd)
	if err != nil {
		return err
	}
	return cn.WriteCommand(cmd)
}

// ReadResponse routes cmd (trusting its memoized hash if already set) and
// reads a response from the chosen connection.
func (r *Ring) ReadResponse(cmd command.Command) (command.Reply, error) {
	cn, err := r.GetConnection(cmd)
	if err != nil {
		return nil, err
	}
	return cn.ReadResponse(cmd)
}

// ExecuteCommand routes cmd and executes it. Unlike cluster.Cluster, there
// is no redirection to follow here: this scheme has no server-authoritative
// slot map, so any server error is a plain error and is returned untouched.
func (r *Ring) ExecuteCommand(cmd command.Command) (command.Reply, error) {
	cn, err := r.GetConnection(cmd)
	if err != nil {
		return nil, err
	}
	return cn.ExecuteCommand(cmd)
}

// ExecuteCommandOnNodes broadcasts cmd to every pooled connection,
// returning one reply per connection in the same order as Iterate. It
// stops and returns at the first error, the way the source this is
// modeled on (GetEvery) returns only the first error it hits rather than
// collecting partial results.
func (r *Ring) ExecuteCommandOnNodes(cmd command.Command) ([]command.Reply, error) {
	conns := r.Iterate()
	replies := make([]command.Reply, 0, len(conns))
	for _, cn := range conns {
		reply, err := cn.ExecuteCommand(cmd)
		if err != nil {
			return nil, err
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

// Stats is a point-in-time snapshot of routing activity.
type Stats struct {
	NotSupported uint64
}

// Stats returns a copy of the current counters.
func (r *Ring) Stats() Stats {
	return r.stats
}
