package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/cache"
	"github.com/matzehuels/seesaw/pkg/config"
	"github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/observability"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// Store is a persistence gateway bound to one slot.
type Store interface {
	simulation.Gateway

	// Clear deletes the stored state of the slot.
	Clear(ctx context.Context) error

	// Backend names the storage backend, e.g. "redis".
	Backend() string

	// Close releases connections.
	Close() error
}

// Encode serialises a state as JSON: {"objects":[{"id","weight","distance"}],"angle"}.
func Encode(s simulation.State) ([]byte, error) {
	if s.Objects == nil {
		s.Objects = []balance.Object{}
	}
	return json.Marshal(s)
}

// Decode parses a state produced by Encode. Undecodable payloads are
// reported as cache.ErrCorrupt.
func Decode(data []byte) (simulation.State, error) {
	var s simulation.State
	if err := json.Unmarshal(data, &s); err != nil {
		return simulation.State{}, fmt.Errorf("%w: %v", cache.ErrCorrupt, err)
	}
	if s.Objects == nil {
		s.Objects = []balance.Object{}
	}
	return s, nil
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	if err := errors.ValidateSlot(cfg.Slot); err != nil {
		return nil, err
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Namespace != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Namespace+":")
	}
	key := keyer.StateKey(cfg.Slot)

	switch cfg.Backend {
	case config.BackendFile:
		dir, err := cfg.FileDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "locate store dir")
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "open file store")
		}
		return NewKVGateway(c, key, config.BackendFile), nil

	case config.BackendMemory:
		return NewKVGateway(cache.NewMemoryCache(), key, config.BackendMemory), nil

	case config.BackendNone:
		return NewKVGateway(cache.NewNullCache(), key, config.BackendNone), nil

	case config.BackendRedis:
		return dial(ctx, func() (Store, error) {
			c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
			if stderrors.Is(err, cache.ErrInvalidURL) {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "redis url")
			}
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodePersistence, err, "open redis store")
			}
			return NewKVGateway(c, key, config.BackendRedis), nil
		})

	case config.BackendMongo:
		return dial(ctx, func() (Store, error) {
			return NewMongoGateway(ctx, cfg.MongoURI, cfg.Database, collectionName(cfg.Namespace), cfg.Slot)
		})

	case config.BackendSQLite:
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "locate sqlite db")
		}
		return NewSQLGateway(ctx, DriverSQLite, path, tableName(cfg.Namespace), cfg.Slot)

	case config.BackendPostgres:
		return dial(ctx, func() (Store, error) {
			return NewSQLGateway(ctx, DriverPostgres, cfg.DSN, tableName(cfg.Namespace), cfg.Slot)
		})
	}

	return nil, errors.New(errors.ErrCodeInvalidBackend, "unknown store backend %q", cfg.Backend)
}

// observeLoad reports a load to the store hooks.
func observeLoad(ctx context.Context, backend string, start time.Time, found bool, err error) {
	observability.Store().OnLoad(ctx, backend, found, time.Since(start), err)
}

// observeSave reports a save to the store hooks.
func observeSave(ctx context.Context, backend string, start time.Time, size int, err error) {
	observability.Store().OnSave(ctx, backend, size, time.Since(start), err)
}
