// Package loadbalance selects one simulator instance from a discovered fleet.
//
// Two strategies:
//   - RoundRobin:      homogeneous fleets, spread sessions evenly
//   - WeightedRandom:  mixed hardware, favor the bigger machines
package loadbalance

import (
	"errors"

	"github.com/ovr/beamng-go/registry"
)

// ErrNoInstances is returned when the fleet is empty.
var ErrNoInstances = errors.New("no simulator instances available")

// Balancer picks a target instance for a new connection.
// Called before each connect — must be goroutine-safe.
type Balancer interface {
	Pick(instances []registry.SimulatorInstance) (*registry.SimulatorInstance, error)

	// Name returns the strategy name for logging.
	Name() string
}
