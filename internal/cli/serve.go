package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cablemoment/pkg/api"
	"github.com/matzehuels/cablemoment/pkg/config"
)

// serveCommand creates the command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the moment API over HTTP",
		Long: `Serve runs the HTTP API with the cache and store selected in the config
file. Results are persisted when requested and can be listed, fetched,
rendered, and deleted by ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	runner, err := c.newRunner(ctx, cfg, runnerOpts{store: true})
	if err != nil {
		return err
	}
	defer c.closeRunner(context.Background(), runner)

	srv := api.New(runner, c.Logger, api.Config{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Defaults:     computeDefaults(cfg),
	})

	printInfo("Serving on %s", StyleLink.Render(serverURL(cfg.Server.Addr)))
	printDetail("cache: %s  store: %s", cfg.Cache.Backend, cfg.Store.Backend)

	return srv.ListenAndServe(ctx, api.ListenOptions{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	})
}

// serverURL turns a listen address into a URL a user can open.
func serverURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s", addr)
}
