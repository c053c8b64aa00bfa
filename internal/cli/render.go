package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cablemoment/pkg/config"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats: "svg", "png", "pdf", "dot", "json"
	detailed  bool     // show branch length and load count on every node
	highlight bool     // mark the heaviest branch
	pngScale  float64  // PNG resolution multiplier
	tolerance float64  // attachment tolerance override
	noCache   bool
}

// renderCommand creates the render command for drawing the feeder tree.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{pngScale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:               "render [file]",
		Short:             "Render the feeder tree of a network document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocument,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show branch length and load count")
	cmd.Flags().BoolVar(&opts.highlight, "highlight", false, "highlight the heaviest branch")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG resolution multiplier")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "attachment tolerance in drawing units (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps every format to the file it is written to. A single
// format honors -o verbatim. A derived path never overwrites the input.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		p := base + "." + f
		if p == input {
			p = base + "_result." + f
		}
		paths[f] = p
	}
	return paths
}

// runRender computes the document and writes every requested format.
func (c *CLI) runRender(ctx context.Context, cfg *config.Config, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	doc, err := io.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: opts.noCache})
	if err != nil {
		return err
	}
	defer c.closeRunner(ctx, runner)

	popts := computeDefaults(cfg)
	if opts.tolerance != 0 {
		popts.Tolerance = opts.tolerance
	}
	popts.Formats = opts.formats
	popts.Detailed = opts.detailed
	popts.Highlight = opts.highlight
	popts.PNGScale = opts.pngScale

	spinner := newStageSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(input), len(doc.Segments), len(doc.Loads))
	spinner.SetDetail(networkSize(len(doc.Segments), len(doc.Loads)) + "; " + strings.Join(opts.formats, ", "))
	spinner.Start()
	res, err := runner.Execute(ctx, doc, popts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopComputed(res.CacheInfo.ComputeHit && res.CacheInfo.RenderHit)
	if res.Record.Result.Root == "" {
		printWarning("Network has no segments or no loads; the tree is empty")
	}

	paths := outputPaths(opts.output, input, opts.formats)
	written := make([]string, 0, len(paths))
	for _, format := range opts.formats {
		path := paths[format]
		if err := writeArtifact(path, res.Artifacts[format]); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		logger.Debugf("Generated %s: %d bytes", path, len(res.Artifacts[format]))
		written = append(written, path)
	}
	slices.Sort(written)

	printSuccess("Rendered %s", input)
	printStats(res.Stats.Segments, res.Stats.Loads, res.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}
