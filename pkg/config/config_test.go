package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/sizing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", "/tmp/cm-cache")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Compute.Tolerance)
	assert.Equal(t, 1e-6, cfg.Compute.Scale)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, filepath.Join("/tmp/cm-cache", AppName), cfg.Cache.Dir)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, AppName, cfg.Telemetry.Service)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[compute]
tolerance = 25.0

[sizing]
system = "single-phase"
max_drop = 4.0

[cache]
backend = "redis"
ttl = "1h30m"

[cache.redis]
addr = "redis:6379"
db = 2

[store]
backend = "mongo"
uri = "mongodb://db:27017"

[server]
addr = "127.0.0.1:9000"
read_timeout = "5s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.Compute.Tolerance)
	assert.Equal(t, 1e-6, cfg.Compute.Scale, "unset keys keep defaults")

	sz := cfg.Sizing.WithDefaults()
	assert.Equal(t, sizing.SinglePhase, sz.System)
	assert.Equal(t, 220.0, sz.Voltage)
	assert.Equal(t, 12.0, sz.Coefficient)
	assert.Equal(t, 4.0, sz.MaxDrop)

	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)

	assert.Equal(t, StoreMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.URI)
	assert.Equal(t, AppName, cfg.Store.Database)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout.Duration)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[compute\n"},
		{"unknown key", "[compute]\ntolerence = 5.0\n"},
		{"bad duration", "[cache]\nttl = \"forever\"\n"},
		{"negative tolerance", "[compute]\ntolerance = -1.0\n"},
		{"unknown cache", "[cache]\nbackend = \"memcached\"\n"},
		{"unknown store", "[store]\nbackend = \"sqlite\"\n"},
		{"unknown system", "[sizing]\nsystem = \"dc\"\n"},
		{"empty redis addr", "[cache]\nbackend = \"redis\"\n[cache.redis]\naddr = \"\"\n"},
		{"empty service", "[telemetry]\nenabled = true\nservice = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadTelemetry(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[telemetry]
enabled = true
endpoint = "http://collector:4318"
`))
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http://collector:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, AppName, cfg.Telemetry.Service)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg-test")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/xdg-test/cablemoment/config.toml", p)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m")))
	assert.Equal(t, 2*time.Minute, d.Duration)

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2m0s", string(out))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestComputeOptions(t *testing.T) {
	opts := Compute{Tolerance: 5, Scale: 1e-3}.Options()
	assert.Equal(t, 5.0, opts.Tolerance)
	assert.Equal(t, 1e-3, opts.Scale)
	assert.Nil(t, opts.Reverser)
}
