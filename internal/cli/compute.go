package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cablemoment/pkg/config"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/pipeline"
	"github.com/matzehuels/cablemoment/pkg/sizing"
)

// computeOpts holds the command-line flags for the compute command.
type computeOpts struct {
	tolerance float64 // attachment tolerance in drawing units; 0 keeps the config value
	scale     float64 // moment scale; 0 keeps the config value
	system    string  // sizing system override
	voltage   float64 // sizing voltage override
	cosPhi    float64 // sizing power factor override
	maxDrop   float64 // sizing drop limit override
	noSizing  bool    // skip conductor selection
	fix       bool    // write reoriented segments back to the input file
	output    string  // write the result record as JSON to this path
	json      bool    // print the result record as JSON to stdout
	branches  bool    // print the per-branch table
	noCache   bool
	refresh   bool
	persist   bool
}

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	var opts computeOpts

	cmd := &cobra.Command{
		Use:   "compute [file]",
		Short: "Compute the worst-case moment of a network document",
		Long: `Compute reads a network document (JSON or TOML), assembles its segments
and loads into a feeder tree, and reports the worst-case moment and total
power at the feed point together with the smallest conductor that carries it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runCompute(cmd.Context(), cfg, args[0], &opts)
		},
	}

	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "attachment tolerance in drawing units (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "moment scale factor (default from config)")
	cmd.Flags().StringVar(&opts.system, "system", "", "sizing system: three-phase, single-phase")
	cmd.Flags().Float64Var(&opts.voltage, "voltage", 0, "line voltage in V")
	cmd.Flags().Float64Var(&opts.cosPhi, "cos-phi", 0, "power factor")
	cmd.Flags().Float64Var(&opts.maxDrop, "max-drop", 0, "voltage drop limit in percent")
	cmd.Flags().BoolVar(&opts.noSizing, "no-sizing", false, "skip conductor selection")
	cmd.Flags().BoolVar(&opts.fix, "fix", false, "rewrite the input file with reoriented segments")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result as JSON to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.branches, "branches", false, "print every branch")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "save the result to the configured store")
	_ = cmd.RegisterFlagCompletionFunc("system", completeSystems)

	return cmd
}

// pipelineOptions layers the command-line overrides over the config file.
func (o *computeOpts) pipelineOptions(cfg *config.Config) pipeline.Options {
	p := computeDefaults(cfg)
	if o.tolerance != 0 {
		p.Tolerance = o.tolerance
	}
	if o.scale != 0 {
		p.Scale = o.scale
	}
	if o.noSizing {
		p.Sizing = nil
	} else {
		p.Sizing = o.sizing(*p.Sizing)
	}
	p.Fix = o.fix
	p.Refresh = o.refresh
	p.Persist = o.persist
	return p
}

func (o *computeOpts) sizing(base sizing.Options) *sizing.Options {
	if o.system != "" {
		base.System = sizing.System(o.system)
	}
	if o.voltage != 0 {
		base.Voltage = o.voltage
	}
	if o.cosPhi != 0 {
		base.CosPhi = o.cosPhi
	}
	if o.maxDrop != 0 {
		base.MaxDrop = o.maxDrop
	}
	return &base
}

// runCompute loads the document, runs the compute stage, and reports it.
func (c *CLI) runCompute(ctx context.Context, cfg *config.Config, input string, opts *computeOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := io.Import(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d segments, %d loads", input, len(doc.Segments), len(doc.Loads))

	runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: opts.noCache, store: opts.persist})
	if err != nil {
		return err
	}
	defer c.closeRunner(ctx, runner)

	spinner := newStageSpinner(ctx, os.Stderr, "Computing "+filepath.Base(input), len(doc.Segments), len(doc.Loads))
	if !opts.json {
		spinner.Start()
	}
	rec, hit, err := runner.ComputeWithCacheInfo(ctx, doc, opts.pipelineOptions(cfg))
	spinner.StopComputed(hit && !opts.json)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Computed %s", input))

	if opts.fix && len(rec.Result.Reversed) > 0 {
		if err := io.Export(rec.Network, input); err != nil {
			return err
		}
		logger.Infof("Rewrote %s (%d segments reoriented)", input, len(rec.Result.Reversed))
	}

	if opts.output != "" {
		if err := writeRecord(rec, opts.output); err != nil {
			return err
		}
	}

	if opts.json {
		return writeRecordTo(rec, os.Stdout)
	}

	printRecord(rec)
	printStats(len(doc.Segments), len(doc.Loads), hit)
	if opts.branches && len(rec.Result.Branches) > 0 {
		fmt.Println(branchTable(rec.Result.Branches))
	}
	if rec.ID != "" {
		printKeyValue("Stored", rec.ID)
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	if rec.Result.Root != "" {
		printNewline()
		printNextStep("Render the feeder tree", fmt.Sprintf("%s render %s", appName, input))
	}
	return nil
}
