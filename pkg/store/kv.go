package store

import (
	"context"
	"time"

	"github.com/matzehuels/seesaw/pkg/cache"
	"github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// KVGateway keeps the encoded state under a single key of a cache.Cache.
type KVGateway struct {
	cache   cache.Cache
	key     string
	backend string
}

// NewKVGateway stores state under key in c. backend names c for logs and hooks.
func NewKVGateway(c cache.Cache, key, backend string) *KVGateway {
	return &KVGateway{cache: c, key: key, backend: backend}
}

// Save encodes and stores s.
func (g *KVGateway) Save(ctx context.Context, s simulation.State) (err error) {
	start := time.Now()
	data, err := Encode(s)
	defer func() { observeSave(ctx, g.backend, start, len(data), err) }()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode state")
	}
	if err := g.cache.Set(ctx, g.key, data, 0); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "save %s", g.key)
	}
	return nil
}

// Load reads and decodes the stored state.
func (g *KVGateway) Load(ctx context.Context) (s simulation.State, found bool, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, g.backend, start, found, err) }()

	data, hit, err := g.cache.Get(ctx, g.key)
	if err != nil {
		return simulation.State{}, false, errors.Wrap(errors.ErrCodePersistence, err, "load %s", g.key)
	}
	if !hit {
		return simulation.Empty(), false, nil
	}
	s, err = Decode(data)
	if err != nil {
		return simulation.State{}, false, errors.Wrap(errors.ErrCodePersistence, err, "load %s", g.key)
	}
	return s, true, nil
}

// Clear deletes the stored state.
func (g *KVGateway) Clear(ctx context.Context) error {
	if err := g.cache.Delete(ctx, g.key); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "clear %s", g.key)
	}
	return nil
}

// Backend names the underlying cache.
func (g *KVGateway) Backend() string { return g.backend }

// Key returns the storage key.
func (g *KVGateway) Key() string { return g.key }

// Cache returns the underlying cache.
func (g *KVGateway) Cache() cache.Cache { return g.cache }

// Close closes the underlying cache.
func (g *KVGateway) Close() error { return g.cache.Close() }

var _ Store = (*KVGateway)(nil)
