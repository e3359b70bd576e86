// Package registry tracks running simulator instances so clients can discover
// a fleet instead of hard-coding one address.
package registry

import "context"

// SimulatorInstance describes one running simulator endpoint.
type SimulatorInstance struct {
	Addr    string // host:port of the simulator's command socket
	Version string // protocol version the instance was started with
	Weight  int    // relative capacity for weighted selection
}

// Registry is the fleet membership interface. Launchers register the
// instances they spawn; clients discover and watch them.
type Registry interface {
	Register(ctx context.Context, instance SimulatorInstance, ttl int64) error
	Deregister(ctx context.Context, addr string) error
	Discover(ctx context.Context) ([]SimulatorInstance, error)
	Watch(ctx context.Context) <-chan []SimulatorInstance
}
