// Package config loads cablemoment settings from a TOML file.
//
// Every field has a default, so a missing file is not an error:
//
//	[compute]
//	tolerance = 10.0   # drawing units
//	scale = 1e-6       # W·mm -> kW·m
//
//	[sizing]
//	system = "three-phase"
//	voltage = 380.0
//	cos_phi = 0.9
//	max_drop = 2.4
//
//	[cache]
//	backend = "file"   # file, redis or none
//	ttl = "168h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "memory" # memory or mongo
//	uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
//	[telemetry]
//	enabled = false
//	endpoint = ""      # OTLP/HTTP URL; empty uses OTEL_EXPORTER_OTLP_ENDPOINT
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/network"
	"github.com/matzehuels/cablemoment/pkg/sizing"
)

// AppName names the configuration and cache directories.
const AppName = "cablemoment"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the full settings tree.
type Config struct {
	Compute   Compute        `toml:"compute"`
	Sizing    sizing.Options `toml:"sizing"`
	Cache     Cache          `toml:"cache"`
	Store     Store          `toml:"store"`
	Server    Server         `toml:"server"`
	Telemetry Telemetry      `toml:"telemetry"`
}

// Compute holds the topology and moment settings.
type Compute struct {
	Tolerance float64 `toml:"tolerance"`
	Scale     float64 `toml:"scale"`
}

// Options converts the section into network options.
func (c Compute) Options() network.Options {
	return network.Options{Tolerance: c.Tolerance, Scale: c.Scale}
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	Redis   Redis    `toml:"redis"`
}

// Redis holds connection settings for the redis cache backend.
type Redis struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	Namespace string `toml:"namespace"`
}

// Store selects and configures the result store.
type Store struct {
	Backend    string `toml:"backend"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Telemetry enables OpenTelemetry tracing of pipeline stages and requests.
type Telemetry struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	Service  string `toml:"service"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Compute: Compute{
			Tolerance: network.DefaultTolerance,
			Scale:     network.DefaultScale,
		},
		Sizing: sizing.Options{},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     Duration{7 * 24 * time.Hour},
			Redis:   Redis{Addr: "localhost:6379"},
		},
		Store: Store{
			Backend:    StoreMemory,
			URI:        "mongodb://localhost:27017",
			Database:   AppName,
			Collection: "results",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBodyBytes: 8 << 20,
		},
		Telemetry: Telemetry{Service: AppName},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cablemoment/config.toml, falling
// back to the platform config directory.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/cablemoment, falling back to the
// platform cache directory.
func DefaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]; a missing default file yields the defaults, while a
// missing explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return finish(cfg)
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return finish(cfg)
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %v", path, undecoded)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if cfg.Cache.Dir == "" {
		if dir, err := DefaultCacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if err := c.Compute.Options().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[compute]")
	}
	if err := c.Sizing.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[sizing]")
	}
	switch c.Cache.Backend {
	case CacheFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache] dir is required for the file backend")
		}
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache.redis] addr is required for the redis backend")
		}
	case CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[cache] ttl must not be negative")
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.URI == "" || c.Store.Database == "" || c.Store.Collection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[store] uri, database and collection are required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[store] unknown backend %q", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[server] addr is required")
	}
	if c.Telemetry.Enabled && c.Telemetry.Service == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "[telemetry] service must not be empty")
	}
	return nil
}
