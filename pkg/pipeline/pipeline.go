// Package pipeline runs the compute → size → render chain for cable
// networks with caching and optional persistence.
//
// The CLI and the API both go through a [Runner], so a network computed from
// the command line and one posted to the server produce the same record and
// share cache entries when they share a cache backend.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, st, logger)
//	res, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Sizing:  &sizing.Options{},
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Record.Result.Moment)
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// Run individual stages:
//
//	rec, hit, err := runner.ComputeWithCacheInfo(ctx, doc, opts)
//	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, rec, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cablemoment/pkg/cache"
	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/network"
	"github.com/matzehuels/cablemoment/pkg/sizing"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// Format constants for rendered outputs.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultPNGScale is the PNG resolution multiplier.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compute options
	Tolerance float64         `json:"tolerance,omitempty"`
	Scale     float64         `json:"scale,omitempty"`
	Sizing    *sizing.Options `json:"sizing,omitempty"` // nil skips conductor selection
	Fix       bool            `json:"fix,omitempty"`    // Return the document with reoriented segments
	Refresh   bool            `json:"refresh,omitempty"`
	Persist   bool            `json:"persist,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Highlight bool     `json:"highlight,omitempty"`
	PNGScale  float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Record is the computed (and possibly persisted) result.
	Record *store.Record

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Segments    int
	Loads       int
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the record came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute applies compute defaults and validates them.
func (o *Options) ValidateForCompute() error {
	netOpts := o.NetworkOptions()
	if err := netOpts.Validate(); err != nil {
		return err
	}
	o.Tolerance, o.Scale = netOpts.Tolerance, netOpts.Scale

	if o.Sizing != nil {
		sz := o.Sizing.WithDefaults()
		if err := sz.Validate(); err != nil {
			return err
		}
		o.Sizing = &sz
	}
	o.setLogger()
	return nil
}

// ValidateForRender applies render defaults and validates them.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png_scale must be positive, got %v", o.PNGScale)
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NetworkOptions returns the options passed to [network.Compute], with
// defaults applied.
func (o *Options) NetworkOptions() network.Options {
	return network.Options{Tolerance: o.Tolerance, Scale: o.Scale}.WithDefaults()
}

// ResultKeyOpts returns cache key options for the compute stage.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	netOpts := o.NetworkOptions()
	k := cache.ResultKeyOpts{
		Tolerance: netOpts.Tolerance,
		Scale:     netOpts.Scale,
		Fixed:     o.Fix,
	}
	if o.Sizing != nil {
		sz := o.Sizing.WithDefaults()
		k.Sizing = fmt.Sprintf("%s/%g/%g/%g/%g", sz.System, sz.Voltage, sz.CosPhi, sz.MaxDrop, sz.Coefficient)
	}
	return k
}

// RenderKeyOpts returns cache key options for one rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{
		Format:    format,
		Detail:    o.Detailed,
		Highlight: o.Highlight,
	}
	if format == FormatPNG {
		k.Scale = o.PNGScale
	}
	return k
}
