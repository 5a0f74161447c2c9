package ringcluster_test

import (
	"errors"

	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/conn"
)

type fakeCommand struct {
	id      string
	args    [][]byte
	hash    uint32
	hasHash bool
}

func newCmd(id string, args ...string) *fakeCommand {
	c := &fakeCommand{id: id}
	for _, a := range args {
		c.args = append(c.args, []byte(a))
	}
	return c
}

func (c *fakeCommand) ID() string           { return c.id }
func (c *fakeCommand) Args() [][]byte       { return c.args }
func (c *fakeCommand) Hash() (uint32, bool) { return c.hash, c.hasHash }
func (c *fakeCommand) SetHash(h uint32)     { c.hash, c.hasHash = h, true }

type fakeReply struct {
	err error
}

func (r *fakeReply) Err() error { return r.err }

func okReply() command.Reply { return &fakeReply{} }

func errReply(msg string) command.Reply { return &fakeReply{err: errors.New(msg)} }

type fakeConn struct {
	params    conn.Parameters
	connected bool
	replies   []command.Reply
	executed  []string
}

func newFakeConn(alias string, replies ...command.Reply) *fakeConn {
	return &fakeConn{
		params:  conn.Parameters{Host: alias, Port: 0, Alias: alias},
		replies: replies,
	}
}

func (f *fakeConn) Connect() error              { f.connected = true; return nil }
func (f *fakeConn) Disconnect() error           { f.connected = false; return nil }
func (f *fakeConn) IsConnected() bool           { return f.connected }
func (f *fakeConn) Parameters() conn.Parameters { return f.params }

func (f *fakeConn) WriteCommand(cmd command.Command) error {
	f.executed = append(f.executed, cmd.ID())
	return nil
}

func (f *fakeConn) ReadResponse(cmd command.Command) (command.Reply, error) {
	return f.pop(), nil
}

func (f *fakeConn) ExecuteCommand(cmd command.Command) (command.Reply, error) {
	f.executed = append(f.executed, cmd.ID())
	return f.pop(), nil
}

func (f *fakeConn) pop() command.Reply {
	if len(f.replies) == 0 {
		return okReply()
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r
}
