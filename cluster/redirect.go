package cluster

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	radixcluster "github.com/kevwan/radixcluster"
	"github.com/kevwan/radixcluster/command"
	"github.com/kevwan/radixcluster/conn"
)

// WriteCommand routes cmd and writes it to the chosen connection, without
// reading a response. Left to the caller to pair with a later
// ReadResponse.
func (c *Cluster) WriteCommand(cmd command.Command) error {
	cn, err := c.GetConnection(cmd)
	if err != nil {
		return err
	}
	return cn.WriteCommand(cmd)
}

// ReadResponse routes cmd (trusting its memoized hash if already set) and
// reads a response from the chosen connection. It does not itself handle
// MOVED/ASK — only ExecuteCommand does, since reading a response
// separately from writing the command means the caller already committed
// to this connection.
func (c *Cluster) ReadResponse(cmd command.Command) (command.Reply, error) {
	cn, err := c.GetConnection(cmd)
	if err != nil {
		return nil, err
	}
	return cn.ReadResponse(cmd)
}

// ExecuteCommand routes cmd, executes it, and transparently follows any
// MOVED/ASK redirection the server sends back — up to maxRedirectDepth
// chained hops, past which it gives up with a ClientException.
func (c *Cluster) ExecuteCommand(cmd command.Command) (command.Reply, error) {
	cn, err := c.GetConnection(cmd)
	if err != nil {
		return nil, err
	}
	return c.executeOn(cn, cmd, 0)
}

func (c *Cluster) executeOn(cn conn.Connection, cmd command.Command, depth int) (command.Reply, error) {
	if depth > maxRedirectDepth {
		c.metrics.incRedirectCap()
		c.stats.RedirectCap++
		c.logger.Warn("cluster: redirection depth cap exceeded",
			zap.Int("depth", depth), zap.Int("cap", maxRedirectDepth))
		return nil, radixcluster.NewClientException("redirection loop exceeded depth cap")
	}

	reply, err := cn.ExecuteCommand(cmd)
	if err != nil {
		// Transport-level failure: not this core's job to retry.
		return reply, err
	}
	if reply == nil || reply.Err() == nil {
		return reply, nil
	}

	kind, slot, addr, perr := parseRedirect(reply.Err().Error())
	switch kind {
	case redirectNone:
		return reply, nil

	case redirectMoved:
		if perr != nil {
			return nil, radixcluster.WrapClientException("malformed MOVED reply", perr)
		}
		target, terr := c.connectionForAddr(addr)
		if terr != nil {
			return nil, terr
		}
		c.slotsMap[slot] = target.Parameters().ID()
		c.slots[uint16(slot)] = target
		c.metrics.incMoved()
		c.stats.Moved++
		c.logger.Info("cluster: following MOVED",
			zap.Int("slot", int(slot)), zap.String("addr", addr))
		return c.executeOn(target, cmd, depth+1)

	case redirectAsk:
		if perr != nil {
			return nil, radixcluster.WrapClientException("malformed ASK reply", perr)
		}
		target, terr := c.connectionForAddr(addr)
		if terr != nil {
			return nil, terr
		}
		c.metrics.incAsk()
		c.stats.Ask++
		c.logger.Info("cluster: following ASK",
			zap.Int("slot", int(slot)), zap.String("addr", addr))
		if _, askErr := target.ExecuteCommand(&simpleCommand{id: "ASKING"}); askErr != nil {
			return nil, askErr
		}
		return c.executeOn(target, cmd, depth+1)

	default:
		return nil, radixcluster.NewClientException("unexpected redirection prefix: " + kind)
	}
}

// connectionForAddr returns the pooled connection for host:port addr,
// materializing one via the factory if it's never been seen before.
func (c *Cluster) connectionForAddr(addr string) (conn.Connection, error) {
	if cn, ok := c.pool[addr]; ok {
		return cn, nil
	}
	if c.factory == nil {
		return nil, radixcluster.NewClientException("no connection factory configured to dial redirect target " + addr)
	}
	host, port, err := splitHostPort(addr)
	if err != nil {
		return nil, radixcluster.WrapClientException("malformed redirection address "+addr, err)
	}
	cn, err := c.factory.Create(c.scheme, conn.Parameters{Host: host, Port: port})
	if err != nil {
		return nil, err
	}
	if err := c.Add(cn); err != nil {
		return nil, err
	}
	return cn, nil
}

func splitHostPort(addr string) (string, int, error) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", 0, strconv.ErrSyntax
	}
	port, err := strconv.Atoi(addr[idx+1:])
	if err != nil {
		return "", 0, err
	}
	return addr[:idx], port, nil
}

type redirectKind = string

const (
	redirectNone  redirectKind = ""
	redirectMoved redirectKind = "MOVED"
	redirectAsk   redirectKind = "ASK"
)

// parseRedirect splits a server-error message into a redirection kind plus
// the slot and host:port it names, per the wire contract: split on first
// space into kind and rest, then split rest on first space into slot and
// host:port. Messages that don't start with "MOVED " or "ASK " are not
// redirections at all and are reported back with redirectNone.
func parseRedirect(msg string) (kind redirectKind, slot int, addr string, err error) {
	first := strings.IndexByte(msg, ' ')
	if first < 0 {
		return redirectNone, 0, "", nil
	}
	head, rest := msg[:first], msg[first+1:]
	if head != "MOVED" && head != "ASK" {
		return redirectNone, 0, "", nil
	}

	second := strings.IndexByte(rest, ' ')
	if second < 0 {
		return redirectKind(head), 0, "", strconv.ErrSyntax
	}
	slotStr, addrStr := rest[:second], rest[second+1:]
	slot, err = strconv.Atoi(slotStr)
	if err != nil {
		return redirectKind(head), 0, "", err
	}
	return redirectKind(head), slot, addrStr, nil
}

// simpleCommand is a minimal command.Command used internally to send the
// ASKING preamble; callers never see it.
type simpleCommand struct {
	id      string
	args    [][]byte
	hash    uint32
	hasHash bool
}

func (s *simpleCommand) ID() string          { return s.id }
func (s *simpleCommand) Args() [][]byte      { return s.args }
func (s *simpleCommand) Hash() (uint32, bool) { return s.hash, s.hasHash }
func (s *simpleCommand) SetHash(h uint32)    { s.hash, s.hasHash = h, true }
