package command

// DescriptorKind enumerates the ways a command can declare where its
// routing key(s) live among its arguments.
type DescriptorKind int

const (
	// FirstKey: argument 0 is the routing key (GET, SET, INCR, ...).
	FirstKey DescriptorKind = iota
	// AllKeys: every argument is a key; routable only if they all hash to
	// the same slot/node (MGET, DEL, ...).
	AllKeys
	// InterleavedKeys: keys live at offset, offset+step, ... (MSET has
	// step=2, offset=0).
	InterleavedKeys
	// KeyAt: the key is the argument at a fixed position (SORT's key is
	// argument 0, but commands with options before the key use this).
	KeyAt
	// EvalLike: argument 0 is the script (or its SHA), argument 1 is an
	// integer giving the number of keys N, which then follow as arguments
	// 2..N+1 (EVAL, EVALSHA).
	EvalLike
	// Unroutable: never allowed on a cluster (admin commands, cluster-wide
	// transactions without declared keys).
	Unroutable
)

// Descriptor is the per-command routing metadata the key extractor
// consults to find a command's routing key(s).
type Descriptor struct {
	Kind DescriptorKind

	// Step and Offset are used by InterleavedKeys.
	Step, Offset int

	// Position is used by KeyAt.
	Position int
}

var firstKey = Descriptor{Kind: FirstKey}
var allKeys = Descriptor{Kind: AllKeys}
var unroutable = Descriptor{Kind: Unroutable}

// DefaultTable is the descriptor table for the commands this core knows
// about out of the box. Callers may extend or override it by constructing
// their own table; nothing in this package requires using DefaultTable.
var DefaultTable = map[string]Descriptor{
	"GET":     firstKey,
	"SET":     firstKey,
	"SETNX":   firstKey,
	"SETEX":   firstKey,
	"GETSET":  firstKey,
	"INCR":    firstKey,
	"INCRBY":  firstKey,
	"DECR":    firstKey,
	"DECRBY":  firstKey,
	"APPEND":  firstKey,
	"STRLEN":  firstKey,
	"TYPE":    firstKey,
	"EXPIRE":  firstKey,
	"TTL":     firstKey,
	"PERSIST": firstKey,

	"HGET":    firstKey,
	"HSET":    firstKey,
	"HDEL":    firstKey,
	"HGETALL": firstKey,
	"LPUSH":   firstKey,
	"RPUSH":   firstKey,
	"LPOP":    firstKey,
	"RPOP":    firstKey,
	"LRANGE":  firstKey,
	"SADD":    firstKey,
	"SREM":    firstKey,
	"SMEMBERS": firstKey,
	"ZADD":    firstKey,
	"ZRANGE":  firstKey,
	"ZSCORE":  firstKey,

	"DEL":    allKeys,
	"MGET":   allKeys,
	"EXISTS": allKeys,
	"UNLINK": allKeys,

	"MSET":   {Kind: InterleavedKeys, Step: 2, Offset: 0},
	"MSETNX": {Kind: InterleavedKeys, Step: 2, Offset: 0},

	"SORT": {Kind: KeyAt, Position: 0},

	"EVAL":    {Kind: EvalLike},
	"EVALSHA": {Kind: EvalLike},

	"PING":      unroutable,
	"INFO":      unroutable,
	"CLUSTER":   unroutable,
	"CONFIG":    unroutable,
	"FLUSHALL":  unroutable,
	"FLUSHDB":   unroutable,
	"SHUTDOWN":  unroutable,
	"MULTI":     unroutable,
	"EXEC":      unroutable,
	"SUBSCRIBE": unroutable,
}

// Lookup returns the descriptor for id, defaulting to Unroutable for
// anything not present in table (an unknown command is never assumed to be
// safely routable).
func Lookup(table map[string]Descriptor, id string) Descriptor {
	if d, ok := table[id]; ok {
		return d
	}
	return unroutable
}
