// Package cli implements the cablemoment command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/matzehuels/cablemoment/pkg/buildinfo"
	"github.com/matzehuels/cablemoment/pkg/cache"
	"github.com/matzehuels/cablemoment/pkg/config"
	"github.com/matzehuels/cablemoment/pkg/observability"
	"github.com/matzehuels/cablemoment/pkg/pipeline"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config; empty means the default location.
	configPath string

	// verbose is set by --verbose and raises the logger to debug level.
	verbose bool

	// tracer is non-nil while a runner with telemetry enabled is open.
	tracer *sdktrace.TracerProvider
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cablemoment computes worst-case electrical moments of cable networks",
		Long:         `Cablemoment assembles cable segments and point loads into a feeder tree, reduces it to the worst-case electrical moment at the feed point, and sizes the conductor that carries it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cablemoment/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output, pipeline events and cache hits")

	// Register all subcommands
	root.AddCommand(c.computeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default one when unset.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects the backends of a runner beyond what the config says.
type runnerOpts struct {
	noCache bool // force the null cache
	store   bool // open the configured store
}

// newRunner creates a pipeline runner from cfg. At debug level every
// pipeline, cache, and HTTP event is logged; with [telemetry] enabled,
// pipeline stages and requests are traced as well. Release it with
// closeRunner.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, ro runnerOpts) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, ro.noCache)
	if err != nil {
		return nil, err
	}

	var st store.Store
	if ro.store {
		if st, err = newStore(ctx, cfg); err != nil {
			ch.Close()
			return nil, err
		}
	}

	if err := c.registerHooks(ctx, cfg); err != nil {
		ch.Close()
		if st != nil {
			st.Close(ctx)
		}
		return nil, err
	}

	r := pipeline.NewRunner(ch, nil, st, c.Logger)
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

// registerHooks installs the log and trace hooks cfg and the log level ask for.
func (c *CLI) registerHooks(ctx context.Context, cfg *config.Config) error {
	var (
		pipelineHooks observability.MultiPipelineHooks
		httpHooks     observability.MultiHTTPHooks
	)

	if c.Logger.GetLevel() <= log.DebugLevel {
		lh := observability.NewLogHooks(c.Logger)
		observability.SetCacheHooks(lh)
		pipelineHooks = append(pipelineHooks, lh)
		httpHooks = append(httpHooks, lh)
	}

	if cfg.Telemetry.Enabled {
		tp, err := observability.InitTracing(ctx, observability.TracingOptions{
			Service:  cfg.Telemetry.Service,
			Version:  buildinfo.Version,
			Endpoint: cfg.Telemetry.Endpoint,
		})
		if err != nil {
			return err
		}
		c.tracer = tp
		th := observability.NewTraceHooks(tp)
		pipelineHooks = append(pipelineHooks, th)
		httpHooks = append(httpHooks, th)
		c.Logger.Debug("tracing enabled", "service", cfg.Telemetry.Service)
	}

	if len(pipelineHooks) > 0 {
		observability.SetPipelineHooks(pipelineHooks)
		observability.SetHTTPHooks(httpHooks)
	}
	return nil
}

// closeRunner closes r and flushes pending spans.
func (c *CLI) closeRunner(ctx context.Context, r *pipeline.Runner) {
	if err := r.Close(ctx); err != nil {
		c.Logger.Warn("close runner", "error", err)
	}
	if c.tracer == nil {
		return
	}
	if err := c.tracer.Shutdown(ctx); err != nil {
		c.Logger.Warn("flush traces", "error", err)
	}
	c.tracer = nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			Namespace: cfg.Cache.Redis.Namespace,
		})
	case config.CacheFile:
		return cache.NewFileCache(cfg.Cache.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Backend == config.StoreMongo {
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        cfg.Store.URI,
			Database:   cfg.Store.Database,
			Collection: cfg.Store.Collection,
		})
	}
	return store.NewMemoryStore(), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// computeDefaults seeds pipeline options from the config file.
func computeDefaults(cfg *config.Config) pipeline.Options {
	sz := cfg.Sizing
	return pipeline.Options{
		Tolerance: cfg.Compute.Tolerance,
		Scale:     cfg.Compute.Scale,
		Sizing:    &sz,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
