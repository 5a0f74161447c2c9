// Package routing implements the key extractor: given a command and its
// per-command routing descriptor, it finds the byte string (or strings)
// that decide where the command goes, applying the hash-tag rule along the
// way. It comes in two flavors — server-scheme and client-scheme — which
// differ only in how they decide whether a multi-key command is routable.
package routing

import (
	"bytes"
	"strconv"

	"github.com/kevwan/radixcluster/command"
)

// HashFunc computes the 32-bit hash used to place a key. The server scheme
// passes in a CRC16-based function; the client scheme passes in the ring's
// hash function. Either way the key extractor doesn't care which.
type HashFunc func([]byte) uint32

// NodeFunc resolves a hash to whatever identifies a node in the caller's
// pool (a connection id, a pointer, ...). It's only used by the
// client-scheme extractor's all-keys check, which must compare node
// identity rather than raw hash equality — two different hashes can still
// land on the same ring node.
type NodeFunc func(hash uint32) any

// HashTag returns the region of key that should actually be hashed. If key
// contains '{' followed later by a non-empty '}', the bytes strictly
// between the first '{' and the first subsequent '}' are returned.
// Otherwise key is returned unchanged (including when the tag is empty,
// e.g. "{}foo", which hashes the whole string).
func HashTag(key []byte) []byte {
	start := bytes.IndexByte(key, '{')
	if start < 0 {
		return key
	}
	end := bytes.IndexByte(key[start+1:], '}')
	if end <= 0 {
		// end == 0 means "{}" with nothing between: empty tag, ignore it.
		// end < 0 means no closing brace: no tag.
		return key
	}
	return key[start+1 : start+1+end]
}

// keysForDescriptor returns the routing keys named by d among args,
// or ok=false if d makes the command unroutable or malformed.
func keysForDescriptor(d command.Descriptor, args [][]byte) (keys [][]byte, ok bool) {
	switch d.Kind {
	case command.FirstKey:
		if len(args) < 1 {
			return nil, false
		}
		return args[:1], true

	case command.AllKeys:
		if len(args) < 1 {
			return nil, false
		}
		return args, true

	case command.InterleavedKeys:
		if d.Step <= 0 || d.Offset < 0 || d.Offset >= len(args) {
			return nil, false
		}
		var out [][]byte
		for i := d.Offset; i < len(args); i += d.Step {
			out = append(out, args[i])
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true

	case command.KeyAt:
		if d.Position < 0 || d.Position >= len(args) {
			return nil, false
		}
		return args[d.Position : d.Position+1], true

	case command.EvalLike:
		if len(args) < 2 {
			return nil, false
		}
		n, err := strconv.Atoi(string(args[1]))
		if err != nil || n < 0 || len(args) < 2+n {
			return nil, false
		}
		if n == 0 {
			return nil, false
		}
		return args[2 : 2+n], true

	default: // Unroutable
		return nil, false
	}
}

// ServerExtractor implements the key extractor for server-authoritative
// sharding: a multi-key command is routable only if every key hashes to
// the same slot.
type ServerExtractor struct {
	Table map[string]command.Descriptor
}

// GetHash applies cmd's routing descriptor and returns the slot hash, or
// ok=false if the command is unroutable or its keys span multiple slots.
func (e ServerExtractor) GetHash(hash HashFunc, cmd command.Command) (uint32, bool) {
	d := command.Lookup(e.Table, cmd.ID())
	keys, ok := keysForDescriptor(d, cmd.Args())
	if !ok {
		return 0, false
	}
	first := hash(HashTag(keys[0]))
	for _, k := range keys[1:] {
		if hash(HashTag(k)) != first {
			return 0, false
		}
	}
	return first, true
}

// GetKeyHash is the raw "connection by key" path, bypassing descriptors
// entirely.
func (e ServerExtractor) GetKeyHash(hash HashFunc, key []byte) uint32 {
	return hash(HashTag(key))
}

// ClientExtractor implements the key extractor for client-side sharding: a
// multi-key command is routable only if every key resolves to the same
// ring node.
type ClientExtractor struct {
	Table map[string]command.Descriptor
}

// GetHash applies cmd's routing descriptor and returns the hash of its
// (single, or node-agreeing) routing key, or ok=false if unroutable or the
// keys span multiple nodes.
func (e ClientExtractor) GetHash(hash HashFunc, node NodeFunc, cmd command.Command) (uint32, bool) {
	d := command.Lookup(e.Table, cmd.ID())
	keys, ok := keysForDescriptor(d, cmd.Args())
	if !ok {
		return 0, false
	}
	firstHash := hash(HashTag(keys[0]))
	firstNode := node(firstHash)
	for _, k := range keys[1:] {
		h := hash(HashTag(k))
		if node(h) != firstNode {
			return 0, false
		}
	}
	return firstHash, true
}

// GetKeyHash is the raw "connection by key" path, bypassing descriptors
// entirely.
func (e ClientExtractor) GetKeyHash(hash HashFunc, key []byte) uint32 {
	return hash(HashTag(key))
}
