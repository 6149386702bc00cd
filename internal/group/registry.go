package group

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/internal/metrics"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("escrow instance not found")
	ErrGroupExists   = errors.New("escrow instance already exists")
)

// Store is the persistence the registry and service need; *Repository
// implements it
type Store interface {
	Save(ctx context.Context, inst *Instance) error
	Load(ctx context.Context, groupID string) (*Instance, error)
}

// entry is a cached controller. persist orders its mutations with their
// snapshot writes, so its saves reach the store in version order.
type entry struct {
	ctrl    *escrow.Controller
	persist sync.Mutex
}

// Registry keeps one live controller per group. Controllers are cached in
// an LRU and restored from the store on a miss; concurrent misses for the
// same group share a single load.
type Registry struct {
	store Store
	owner escrow.Key
	opts  []escrow.Option

	cache *lru.Cache[escrow.Key, *entry]
	loads singleflight.Group

	// serializes Create
	mu sync.Mutex
}

// NewRegistry creates a registry holding up to size controllers in memory.
// owner owns every instance created through it; opts apply to created and
// restored controllers alike.
func NewRegistry(store Store, owner escrow.Key, size int, opts ...escrow.Option) (*Registry, error) {
	cache, err := lru.New[escrow.Key, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry cache: %w", err)
	}

	return &Registry{
		store: store,
		owner: owner,
		opts:  opts,
		cache: cache,
	}, nil
}

// Get returns the live controller for groupID
func (r *Registry) Get(ctx context.Context, groupID escrow.Key) (*entry, error) {
	if e, ok := r.cache.Get(groupID); ok {
		metrics.RegistryLoads.WithLabelValues("hit").Inc()
		return e, nil
	}

	v, err, _ := r.loads.Do(groupID.String(), func() (any, error) {
		if e, ok := r.cache.Get(groupID); ok {
			return e, nil
		}

		inst, err := r.store.Load(ctx, groupID.String())
		if err != nil {
			return nil, err
		}
		if inst == nil {
			metrics.RegistryLoads.WithLabelValues("miss").Inc()
			return nil, ErrGroupNotFound
		}

		e := &entry{ctrl: escrow.Restore(inst.State, r.opts...)}
		r.cache.Add(groupID, e)
		metrics.RegistryLoads.WithLabelValues("restored").Inc()
		log.Debugw("restored escrow instance", "group", groupID, "version", inst.Version)
		return e, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*entry), nil
}

// Create registers a new, uninitialized controller for groupID
func (r *Registry) Create(ctx context.Context, groupID escrow.Key) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache.Contains(groupID) {
		return nil, ErrGroupExists
	}

	inst, err := r.store.Load(ctx, groupID.String())
	if err != nil {
		return nil, err
	}
	if inst != nil {
		return nil, ErrGroupExists
	}

	e := &entry{ctrl: escrow.NewController(r.owner, r.opts...)}
	r.cache.Add(groupID, e)
	return e, nil
}

// evictEntry drops groupID only while e is still the cached entry
func (r *Registry) evictEntry(groupID escrow.Key, e *entry) {
	if cached, ok := r.cache.Peek(groupID); ok && cached == e {
		r.cache.Remove(groupID)
	}
}

// Evict drops groupID from memory. The next Get restores it from the store.
func (r *Registry) Evict(groupID escrow.Key) {
	r.cache.Remove(groupID)
}

// Len returns the number of controllers in memory
func (r *Registry) Len() int {
	return r.cache.Len()
}
