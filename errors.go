// Package radixcluster is the cluster routing core of a client library for
// a sharded in-memory key-value store. It decides which connection a
// command must go to, keeps that decision consistent as slots move, and
// transparently follows the server's MOVED/ASK redirections.
//
// Two independent implementations share the Router facade declared here:
// cluster.Cluster for server-authoritative hash-slot sharding, and
// ringcluster.Ring for client-side consistent-hash sharding.
package radixcluster

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned when a command cannot be routed in the
// current scheme: it declares no keys, its keys span more than one
// slot/node, or it is simply unknown to the descriptor table. It is raised
// locally by GetConnection and is never retried.
var ErrNotSupported = errors.New("radixcluster: command not supported on this cluster")

// ClientException signals a protocol-level anomaly: an unexpected
// redirection prefix, a redirection loop exceeding the depth cap, or a
// malformed "host:port" in a redirection reply.
type ClientException struct {
	msg string
	err error
}

func (e *ClientException) Error() string {
	if e.err != nil {
		return fmt.Sprintf("radixcluster: %s: %v", e.msg, e.err)
	}
	return "radixcluster: " + e.msg
}

func (e *ClientException) Unwrap() error { return e.err }

// NewClientException builds a ClientException with a fixed message.
func NewClientException(msg string) *ClientException {
	return &ClientException{msg: msg}
}

// WrapClientException builds a ClientException wrapping a lower-level
// error (e.g. a malformed redirection address).
func WrapClientException(msg string, err error) *ClientException {
	return &ClientException{msg: msg, err: err}
}
