package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cablemoment/pkg/config"
	"github.com/matzehuels/cablemoment/pkg/io"
)

// inspectCommand creates the interactive branch browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:               "inspect [file]",
		Short:             "Browse the reduced branches of a network document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), cfg, args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cfg *config.Config, input string, noCache bool) error {
	doc, err := io.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: noCache})
	if err != nil {
		return err
	}
	defer c.closeRunner(ctx, runner)

	rec, err := runner.Compute(ctx, doc, computeDefaults(cfg))
	if err != nil {
		return err
	}
	if len(rec.Result.Branches) == 0 {
		printInfo("Nothing to inspect: the network has no segments or no loads")
		return nil
	}

	_, err = tea.NewProgram(NewBranchListModel(rec), tea.WithContext(ctx)).Run()
	return err
}
