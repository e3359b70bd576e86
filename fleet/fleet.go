// Package fleet connects to one simulator chosen from a discovered fleet.
//
// It ties the registry (who is running), a balancer (which one to use), and
// the transport (how to talk to it) together. Connections are not pooled and
// never reconnect on their own: after a disconnect, call Connect again for a
// fresh connection — and a fresh request-id space.
package fleet

import (
	"context"
	"net"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovr/beamng-go/loadbalance"
	"github.com/ovr/beamng-go/registry"
	"github.com/ovr/beamng-go/transport"
)

// Fleet discovers simulator instances and opens connections to them.
type Fleet struct {
	registry registry.Registry
	balancer loadbalance.Balancer
	log      *zap.Logger
	opts     []transport.Option
}

// New builds a Fleet. The transport options are applied to every connection
// it opens.
func New(reg registry.Registry, bal loadbalance.Balancer, log *zap.Logger, opts ...transport.Option) *Fleet {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fleet{
		registry: reg,
		balancer: bal,
		log:      log,
		opts:     opts,
	}
}

// Connect discovers the current fleet, picks an instance, and opens a
// handshaken connection to it. The chosen instance is returned alongside so
// callers can report or deregister it on failure.
func (f *Fleet) Connect(ctx context.Context) (*transport.Connection, *registry.SimulatorInstance, error) {
	instances, err := f.registry.Discover(ctx)
	if err != nil {
		return nil, nil, err
	}

	instance, err := f.balancer.Pick(instances)
	if err != nil {
		return nil, nil, err
	}

	host, portStr, err := net.SplitHostPort(instance.Addr)
	if err != nil {
		return nil, nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, nil, err
	}

	f.log.Info("connecting to simulator instance",
		zap.String("addr", instance.Addr),
		zap.String("strategy", f.balancer.Name()))

	conn, err := transport.Open(host, port, f.opts...)
	if err != nil {
		return nil, instance, err
	}
	return conn, instance, nil
}
