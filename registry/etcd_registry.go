// etcd-backed implementation of Registry.
//
//	Key:   /beamng/instances/{addr}
//	Value: JSON-encoded SimulatorInstance
//
// Registration uses TTL leases: a launcher that dies stops renewing its lease
// and the instance entry expires on its own, so clients never discover a
// simulator that is no longer there.
package registry

import (
	"context"
	"encoding/json"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const instancePrefix = "/beamng/instances/"

// EtcdRegistry implements Registry on etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // thread-safe, shared across goroutines
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c}, nil
}

// Register stores the instance under a TTL lease and starts background lease
// renewal. If renewal stops (process death, partition), the entry expires
// after ttl seconds.
func (r *EtcdRegistry) Register(ctx context.Context, instance SimulatorInstance, ttl int64) error {
	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, instancePrefix+instance.Addr, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	// Drain keepalive responses so the channel never fills up.
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes an instance entry, typically on graceful shutdown.
func (r *EtcdRegistry) Deregister(ctx context.Context, addr string) error {
	_, err := r.client.Delete(ctx, instancePrefix+addr)
	return err
}

// Discover returns all currently registered simulator instances.
func (r *EtcdRegistry) Discover(ctx context.Context) ([]SimulatorInstance, error) {
	resp, err := r.client.Get(ctx, instancePrefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]SimulatorInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance SimulatorInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue // skip malformed entries
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// Watch emits the full instance list whenever fleet membership changes.
// Re-fetching on every event is simpler than folding individual watch events
// into local state, and fleets are small.
func (r *EtcdRegistry) Watch(ctx context.Context) <-chan []SimulatorInstance {
	ch := make(chan []SimulatorInstance, 1)

	go func() {
		defer close(ch)
		watchChan := r.client.Watch(ctx, instancePrefix, clientv3.WithPrefix())
		for range watchChan {
			instances, err := r.Discover(ctx)
			if err != nil {
				continue
			}
			select {
			case ch <- instances:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// Close releases the underlying etcd client.
func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}
