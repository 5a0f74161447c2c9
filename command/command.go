// Package command declares the abstract shapes the routing core relies on
// from its external collaborators: the command object issued by application
// code and the reply that comes back from a connection. Neither the wire
// encoding nor the concrete command catalog lives here — those belong to the
// codec and client-facade layers this core treats as out of scope.
package command

// Command is the external shape the routing core reads from and writes a
// routing decision onto. Hash/SetHash memoize that decision for the
// lifetime of one command's execution, so repeated routing of the same
// Command instance always lands on the same slot or ring position (the
// cached hash wins). The connection chosen for that slot still follows any
// change to the slot map made in between.
type Command interface {
	// ID is the command's identifier, e.g. "GET", "MSET", "EVAL". Matching
	// is case-sensitive; callers are expected to upper-case before
	// constructing a Command, the way the server itself does.
	ID() string

	// Args returns the command's ordered byte-string arguments, not
	// including the ID itself.
	Args() [][]byte

	// Hash returns the previously computed routing hash, if any.
	Hash() (uint32, bool)

	// SetHash memoizes the routing hash on the command.
	SetHash(uint32)
}

// Reply is either a value or a server-side error. Only the error message
// matters to this core: it is inspected for a MOVED/ASK prefix and
// otherwise passed back to the caller untouched.
type Reply interface {
	// Err returns the server error carried by this reply, or nil if the
	// reply is a plain value.
	Err() error
}
