package loadbalance

import (
	"math/rand"

	"github.com/ovr/beamng-go/registry"
)

// WeightedRandomBalancer picks instances with probability proportional to
// their Weight. Instances with weight zero are never picked unless every
// weight is zero, in which case selection is uniform.
type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(instances []registry.SimulatorInstance) (*registry.SimulatorInstance, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	totalWeight := 0
	for _, inst := range instances {
		totalWeight += inst.Weight
	}
	if totalWeight <= 0 {
		return &instances[rand.Intn(len(instances))], nil
	}

	r := rand.Intn(totalWeight)
	for i := range instances {
		r -= instances[i].Weight
		if r < 0 {
			return &instances[i], nil
		}
	}
	// Unreachable: r < totalWeight guarantees the loop returns.
	return &instances[len(instances)-1], nil
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
