// Package ring implements a consistent-hash ring over a set of weighted
// nodes, used by the client-side sharding scheme where the server pool
// doesn't coordinate and placement is decided entirely on the client.
//
// The ring keeps its entries sorted by position at all times; Add and
// Remove rebuild the sorted slice atomically so no Get ever observes a
// half-updated ring.
package ring

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"sort"
)

// defaultReplicasPerWeight is how many ring positions a node with weight 1
// contributes. A weight of w gets defaultReplicasPerWeight*w positions.
const defaultReplicasPerWeight = 160

// Node is anything that can sit on the ring. Identity is by Go equality, so
// callers should pass the same value (pointer, string, etc.) for Add/Remove
// pairs describing the same logical node.
type Node interface{}

type entry struct {
	position uint32
	node     Node
}

// Ring is a consistent-hash ring. The zero value is ready to use.
type Ring struct {
	entries []entry
}

// New returns an empty Ring.
func New() *Ring {
	return &Ring{}
}

// HashKey computes the 32-bit hash used both for ring placement and for
// looking a key up on the ring, so callers (the key extractor) and the ring
// itself always agree on the hash function.
func HashKey(b []byte) uint32 {
	sum := md5.Sum(b)
	return binary.BigEndian.Uint32(sum[:4])
}

func replicaPosition(identity string, i int) uint32 {
	return HashKey([]byte(fmt.Sprintf("%s|%d", identity, i)))
}

// Add inserts replicas*weight ring entries for node, keyed by identity
// (the node's alias or "host:port"). weight must be positive; callers
// default it to 1.
func (r *Ring) Add(node Node, identity string, weight int) {
	if weight <= 0 {
		weight = 1
	}
	replicas := defaultReplicasPerWeight * weight
	added := make([]entry, replicas)
	for i := 0; i < replicas; i++ {
		added[i] = entry{position: replicaPosition(identity, i), node: node}
	}
	merged := append(r.entries, added...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].position < merged[j].position })
	r.entries = merged
}

// Remove drops every entry belonging to node. Node identity is compared
// with ==, matching how Add's caller is expected to keep passing the same
// value for a given logical node.
func (r *Ring) Remove(node Node) {
	kept := r.entries[:0:0]
	for _, e := range r.entries {
		if e.node != node {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// Get returns the node owning the first ring position >= hash, wrapping
// around to the first entry if hash is past every position. Panics if the
// ring is empty — callers must check Len() first.
func (r *Ring) Get(hash uint32) Node {
	if len(r.entries) == 0 {
		panic("ring: Get called on empty ring")
	}
	idx := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].position >= hash
	})
	if idx == len(r.entries) {
		idx = 0
	}
	return r.entries[idx].node
}

// Len reports how many replica entries currently sit on the ring (not the
// number of distinct nodes).
func (r *Ring) Len() int {
	return len(r.entries)
}
