package conn

import (
	"fmt"
	"sync"
)

// Initializer materializes a single Connection from Parameters. It mirrors
// the teacher's DialFunc (radix.v2/pool.DialFunc), narrowed from "dial one
// of a pool of connections for this address" to "dial the one connection
// this address needs" — per-host pooling strategy is explicitly out of
// this core's scope, so the factory adapter hands back bare connections
// and leaves any pooling of its own to the caller.
type Initializer func(Parameters) (Connection, error)

// Factory maps a scheme prefix ("tcp", "unix", ...) to the Initializer
// that knows how to dial it. A Factory with no schemes registered is
// useless but not invalid; callers populate it with Define before use.
type Factory struct {
	mu      sync.RWMutex
	schemes map[string]Initializer
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{schemes: make(map[string]Initializer)}
}

// Define registers init under scheme, replacing any earlier registration.
// The only check made at registration time is for nil: init is not called
// until the first Create for scheme. Passing a nil Initializer is a caller
// error and panics, matching how a missing DialFunc would crash on first
// use in the teacher's pool package.
func (f *Factory) Define(scheme string, init Initializer) {
	if init == nil {
		panic("conn: Define called with a nil Initializer for scheme " + scheme)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemes[scheme] = init
}

// Undefine removes scheme's registration, if any.
func (f *Factory) Undefine(scheme string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.schemes, scheme)
}

// Create dials a new Connection for params using scheme's registered
// Initializer.
func (f *Factory) Create(scheme string, params Parameters) (Connection, error) {
	f.mu.RLock()
	init, ok := f.schemes[scheme]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("conn: no initializer registered for scheme %q", scheme)
	}
	return init(params)
}

// Pool is the minimal router-facing capability CreateAggregated needs: a
// place to Add freshly dialed connections.
type Pool interface {
	Add(Connection) error
}

// CreateAggregated is a convenience constructor: it dials one connection
// per entry in params (all using the same scheme) and adds each to pool,
// stopping at the first error. It exists for callers that want to seed a
// router's whole pool in one call instead of looping over Create+Add
// themselves.
func CreateAggregated(f *Factory, scheme string, pool Pool, params []Parameters) error {
	for _, p := range params {
		c, err := f.Create(scheme, p)
		if err != nil {
			return err
		}
		if err := pool.Add(c); err != nil {
			return err
		}
	}
	return nil
}
