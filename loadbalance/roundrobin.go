package loadbalance

import (
	"sync/atomic"

	"github.com/ovr/beamng-go/registry"
)

// RoundRobinBalancer cycles through instances in order. The atomic counter
// keeps Pick lock-free and goroutine-safe.
type RoundRobinBalancer struct {
	counter atomic.Int64
}

// Pick selects the next instance in round-robin order.
func (b *RoundRobinBalancer) Pick(instances []registry.SimulatorInstance) (*registry.SimulatorInstance, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}
	index := b.counter.Add(1) % int64(len(instances))
	return &instances[index], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
