package network

import (
	"context"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/geom"
)

const (
	// DefaultTolerance is the distance, in drawing units, below which two
	// features are considered coincident.
	DefaultTolerance = 10.0

	// DefaultScale converts W·mm into kW·m.
	DefaultScale = 1e-6
)

// Reverser is told about every segment the builder reorients, so that the
// owner of the authoritative geometry can apply the same change. It is
// called synchronously with the builder's working copy, already reversed.
type Reverser interface {
	ReverseSegment(ctx context.Context, seg *geom.Segment) error
}

// ReverserFunc adapts a function to the Reverser interface.
type ReverserFunc func(ctx context.Context, seg *geom.Segment) error

// ReverseSegment calls f.
func (f ReverserFunc) ReverseSegment(ctx context.Context, seg *geom.Segment) error {
	return f(ctx, seg)
}

// Options configures topology discovery and reduction.
// The zero value is valid and uses the defaults.
type Options struct {
	// Tolerance is the proximity threshold in drawing units.
	// Zero means DefaultTolerance.
	Tolerance float64

	// Scale converts power × length into the moment unit.
	// Zero means DefaultScale.
	Scale float64

	// Reverser, if set, is notified of every reoriented segment.
	Reverser Reverser
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	return o
}

// Validate checks the options after defaults have been applied.
func (o Options) Validate() error {
	o = o.WithDefaults()
	if err := errors.ValidateTolerance(o.Tolerance); err != nil {
		return err
	}
	return errors.ValidateScale(o.Scale)
}
