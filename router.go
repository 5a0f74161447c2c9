package radixcluster

import (
	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/conn"
)

// Router is the dispatch surface shared by the server-cluster router
// (cluster.Cluster) and the client-cluster router (ringcluster.Ring). Both
// satisfy it structurally; neither imports this package to do so.
//
// No method here is safe for concurrent use on the same Router: the core
// is single-threaded cooperative, and a command's routing hash is written
// mid-dispatch. An external coordinator must serialize calls against one
// Router instance.
type Router interface {
	Add(c conn.Connection) error
	Remove(c conn.Connection) error
	RemoveById(id string) error

	Connect() error
	Disconnect() error
	IsConnected() bool

	GetConnection(cmd command.Command) (conn.Connection, error)
	GetConnectionById(id string) (conn.Connection, bool)

	Count() int
	Iterate() []conn.Connection

	WriteCommand(cmd command.Command) error
	ReadResponse(cmd command.Command) (command.Reply, error)
	ExecuteCommand(cmd command.Command) (command.Reply, error)
}
