package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cablemoment/pkg/observability"
)

// runRoot executes the root command with args against a config that
// disables the cache, and returns what the CLI logged.
func runRoot(t *testing.T, ctx context.Context, args ...string) (*CLI, string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, cfgPath, "[cache]\nbackend = \"none\"\n")

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(ctx)
	return c, buf.String(), err
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"progress at info", LogInfo, func(l *log.Logger) { l.Info("Computed yard.json") }, true},
		{"document details at info", LogInfo, func(l *log.Logger) { l.Debug("Loaded yard.json") }, false},
		{"document details at debug", LogDebug, func(l *log.Logger) { l.Debug("Loaded yard.json") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestComputeVerbosity(t *testing.T) {
	yard := writeYard(t)

	tests := []struct {
		name    string
		args    []string
		level   log.Level
		want    []string
		notWant []string
	}{
		{
			name:    "default",
			args:    []string{"compute", yard, "--json"},
			level:   LogInfo,
			want:    []string{"Computed " + yard},
			notWant: []string{"loaded config", "Loaded", "compute start"},
		},
		{
			name:  "verbose",
			args:  []string{"-v", "compute", yard, "--json"},
			level: LogDebug,
			want:  []string{"Computed " + yard, "loaded config", "Loaded " + yard + ": 2 segments, 2 loads", "compute start"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out, err := runRoot(t, context.Background(), tt.args...)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			if got := c.Logger.GetLevel(); got != tt.level {
				t.Errorf("level = %v, want %v", got, tt.level)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("log has %q at info level:\n%s", w, out)
				}
			}
		})
	}
}

func TestServeLogsThroughCLILogger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, out, err := runRoot(t, ctx, "-v", "serve", "--addr", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	for _, w := range []string{"loaded config", "listening", "shutting down"} {
		if !strings.Contains(out, w) {
			t.Errorf("log missing %q:\n%s", w, out)
		}
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Computed yard.json")

	out := buf.String()
	if !strings.Contains(out, "Computed yard.json (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, LogInfo)

	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should fall back to log.Default")
	}
}
