// Package conn declares the abstract single-connection capability the
// routing core depends on, plus the connection factory adapter (component
// F) that materializes new connections from host:port descriptors. The
// byte-level wire codec, TCP/TLS transport, and per-host pooling strategy
// are all external collaborators this package only talks to through
// interfaces.
package conn

import (
	"fmt"

	"github.com/kevwan/radixcluster/command"
)

// Parameters is the immutable identity of a connection: where it points,
// and the optional identity/weight knobs the routers and ring consult.
type Parameters struct {
	Host   string
	Port   int
	Alias  string
	Weight int
}

// ID is the connection's canonical id: Alias if set, else "host:port". Two
// connections with the same id cannot coexist in one pool.
func (p Parameters) ID() string {
	if p.Alias != "" {
		return p.Alias
	}
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// EffectiveWeight returns Weight, defaulting to 1 if unset or non-positive.
func (p Parameters) EffectiveWeight() int {
	if p.Weight <= 0 {
		return 1
	}
	return p.Weight
}

// Connection is the opaque handle the routing core delegates I/O to. The
// core never interprets bytes on the wire; it only calls these methods.
type Connection interface {
	Connect() error
	Disconnect() error
	IsConnected() bool

	WriteCommand(cmd command.Command) error
	ReadResponse(cmd command.Command) (command.Reply, error)
	ExecuteCommand(cmd command.Command) (command.Reply, error)

	Parameters() Parameters
}
