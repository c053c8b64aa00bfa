package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cablemoment/pkg/config"
	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/observability"
)

// yardJSON is a trunk with one drawn-backwards drop and two loads. Its
// moment at the feed point is 800 kW·m for 12 kW.
const yardJSON = `{
  "name": "yard",
  "segments": [
    {"id": "trunk", "points": [[0, 0], [100000, 0]]},
    {"id": "drop", "points": [[50000, 20000], [50000, 0]]}
  ],
  "loads": [
    {"id": "pump", "position": [50000, 20000], "power": 10000},
    {"id": "light", "position": [100000, 0], "power": 2000}
  ]
}`

// testCLI returns a CLI logging into a buffer, a context carrying its
// logger, and a config with caching disabled.
func testCLI(t *testing.T) (*CLI, context.Context, *config.Config) {
	t.Helper()
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheNone
	cfg.Cache.Dir = t.TempDir()
	return c, withLogger(context.Background(), c.Logger), cfg
}

// writeYard writes the yard network into a temp dir and returns its path.
func writeYard(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yard.json")
	writeFile(t, path, yardJSON)
	return path
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	for _, name := range []string{"compute", "render", "inspect", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug line written at info level")
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("debug line missing after SetLogLevel(LogDebug)")
	}
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")

	_, err := c.loadConfig()
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("loadConfig() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[compute]\ntolerance = 25\n\n[cache]\nbackend = \"none\"\n")

	c := New(&bytes.Buffer{}, LogInfo)
	c.configPath = path
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Compute.Tolerance != 25 {
		t.Errorf("tolerance = %v, want 25", cfg.Compute.Tolerance)
	}
	if cfg.Cache.Backend != config.CacheNone {
		t.Errorf("cache backend = %q, want %q", cfg.Cache.Backend, config.CacheNone)
	}
}

func TestNewRunnerBackends(t *testing.T) {
	c, ctx, cfg := testCLI(t)
	cfg.Cache.Backend = config.CacheFile

	r, err := c.newRunner(ctx, cfg, runnerOpts{store: true})
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	defer r.Close(ctx)

	if r.Store == nil {
		t.Error("store not opened")
	}
	if r.TTL != cfg.Cache.TTL.Duration {
		t.Errorf("TTL = %v, want %v", r.TTL, cfg.Cache.TTL.Duration)
	}
}

func TestNewRunnerTelemetry(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Cleanup(observability.Reset)

	c, ctx, cfg := testCLI(t)
	cfg.Telemetry.Enabled = true

	r, err := c.newRunner(ctx, cfg, runnerOpts{})
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	if c.tracer == nil {
		t.Fatal("tracer provider not installed")
	}
	if _, ok := observability.Pipeline().(observability.MultiPipelineHooks); !ok {
		t.Errorf("pipeline hooks = %T, want MultiPipelineHooks", observability.Pipeline())
	}

	c.closeRunner(ctx, r)
	if c.tracer != nil {
		t.Error("closeRunner left the tracer provider set")
	}
}

func TestComputeDefaultsCopiesSizing(t *testing.T) {
	cfg := config.Default()
	opts := computeDefaults(cfg)
	opts.Sizing.Voltage = 230

	if cfg.Sizing.Voltage == 230 {
		t.Error("computeDefaults shares the config's sizing options")
	}
}

func TestYardFixture(t *testing.T) {
	doc, err := io.Import(writeYard(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.TotalPower(); got != 12000 {
		t.Errorf("TotalPower() = %v, want 12000", got)
	}
}
