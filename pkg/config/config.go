// Package config loads seesaw settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (by default $XDG_CONFIG_HOME/seesaw/config.toml)
//  3. a .env file in the working directory, if present
//  4. SEESAW_* environment variables
//
// Example config.toml:
//
//	[plank]
//	length = 400
//
//	[balance]
//	torque_scale = 10
//	min_angle = -30
//	max_angle = 30
//
//	[weights]
//	min = 1
//	max = 10
//
//	[store]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/registry"
)

const appName = "seesaw"

// Storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendNone     = "none"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Object id schemes.
const (
	IDSchemeUUID    = "uuid"
	IDSchemeCounter = "counter"
)

// Backends lists every supported storage backend.
var Backends = []string{BackendFile, BackendMemory, BackendNone, BackendRedis, BackendMongo, BackendSQLite, BackendPostgres}

// Config is the complete application configuration.
type Config struct {
	Plank   Plank   `toml:"plank"`
	Balance Balance `toml:"balance"`
	Weights Weights `toml:"weights"`
	IDs     IDs     `toml:"ids"`
	Store   Store   `toml:"store"`
	Server  Server  `toml:"server"`
}

// Plank holds plank geometry.
type Plank struct {
	Length float64 `toml:"length"`
}

// Balance holds the torque-to-angle mapping.
type Balance struct {
	TorqueScale float64 `toml:"torque_scale"`
	MinAngle    float64 `toml:"min_angle"`
	MaxAngle    float64 `toml:"max_angle"`
}

// Weights holds the random weight range in kilograms. A zero seed means
// non-reproducible weights.
type Weights struct {
	Min  int    `toml:"min"`
	Max  int    `toml:"max"`
	Seed uint64 `toml:"seed"`
}

// IDs selects how new objects are named. The counter scheme issues
// "<prefix><n>" and continues after the highest restored id.
type IDs struct {
	Scheme string `toml:"scheme"` // uuid or counter
	Prefix string `toml:"prefix"` // counter scheme only
}

// Store selects and configures the persistence backend.
type Store struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`       // file backend
	RedisURL  string `toml:"redis_url"` // redis backend
	MongoURI  string `toml:"mongo_uri"` // mongo backend
	Database  string `toml:"database"`  // mongo database name
	DSN       string `toml:"dsn"`       // sqlite path or postgres URL
	Slot      string `toml:"slot"`      // which saved simulation to use
	Namespace string `toml:"namespace"` // key prefix for shared backends
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Plank: Plank{Length: geometry.DefaultPlankLength},
		Balance: Balance{
			TorqueScale: balance.DefaultTorqueScale,
			MinAngle:    balance.DefaultMinAngle,
			MaxAngle:    balance.DefaultMaxAngle,
		},
		Weights: Weights{Min: 1, Max: 10},
		IDs:     IDs{Scheme: IDSchemeUUID, Prefix: "obj-"},
		Store: Store{
			Backend:  BackendFile,
			RedisURL: "redis://localhost:6379/0",
			MongoURI: "mongodb://localhost:27017",
			Database: appName,
			Slot:     "default",
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load builds the configuration from defaults, the TOML file at path, .env
// and the environment. An empty path means DefaultPath, which may be absent;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults. The environment is not consulted.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Store.Backend, "SEESAW_STORE")
	setString(&c.Store.Dir, "SEESAW_STORE_DIR")
	setString(&c.Store.RedisURL, "SEESAW_REDIS_URL")
	setString(&c.Store.MongoURI, "SEESAW_MONGO_URI")
	setString(&c.Store.DSN, "SEESAW_DSN")
	setString(&c.Store.Slot, "SEESAW_SLOT")
	setString(&c.Store.Namespace, "SEESAW_NAMESPACE")
	setString(&c.Server.Addr, "SEESAW_ADDR")
	setString(&c.IDs.Scheme, "SEESAW_ID_SCHEME")

	if v := os.Getenv("SEESAW_WEIGHT_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "SEESAW_WEIGHT_SEED")
		}
		c.Weights.Seed = seed
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if !(c.Plank.Length > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "plank length must be positive, got %g", c.Plank.Length)
	}
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "balance")
	}
	if c.Weights.Min <= 0 || c.Weights.Max < c.Weights.Min {
		return errors.New(errors.ErrCodeInvalidConfig, "weights must satisfy 0 < min <= max, got [%d, %d]", c.Weights.Min, c.Weights.Max)
	}
	if c.IDs.Scheme != IDSchemeUUID && c.IDs.Scheme != IDSchemeCounter {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown id scheme %q (want %s or %s)", c.IDs.Scheme, IDSchemeUUID, IDSchemeCounter)
	}
	if !IsBackend(c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidBackend, "unknown store backend %q (want one of %v)", c.Store.Backend, Backends)
	}
	if err := errors.ValidateSlot(c.Store.Slot); err != nil {
		return err
	}
	return nil
}

// IsBackend reports whether name is a supported storage backend.
func IsBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Params returns the balance parameters.
func (c *Config) Params() balance.Params {
	return balance.Params{
		TorqueScale: c.Balance.TorqueScale,
		MinAngle:    c.Balance.MinAngle,
		MaxAngle:    c.Balance.MaxAngle,
	}
}

// IDGenerator returns a fresh generator for the configured id scheme.
func (c *Config) IDGenerator() registry.IDGenerator {
	if c.IDs.Scheme == IDSchemeCounter {
		return registry.NewCounterGenerator(c.IDs.Prefix, 0)
	}
	return registry.UUIDGenerator{}
}

// PlankGeometry returns the plank.
func (c *Config) PlankGeometry() geometry.Plank {
	return geometry.NewPlank(c.Plank.Length)
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/seesaw/config.toml, or
// ~/.config/seesaw/config.toml. It returns "" if no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DataDir returns the directory for the file backend using the XDG
// standard (~/.local/share/seesaw/).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// FileDir returns the file backend directory, defaulting to DataDir.
func (s Store) FileDir() (string, error) {
	if s.Dir != "" {
		return s.Dir, nil
	}
	return DataDir()
}

// SQLitePath returns the sqlite database path: the DSN if set, otherwise
// seesaw.db inside DataDir.
func (s Store) SQLitePath() (string, error) {
	if s.DSN != "" {
		return s.DSN, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "seesaw.db"), nil
}
