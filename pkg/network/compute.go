package network

import (
	"context"

	"github.com/matzehuels/cablemoment/pkg/geom"
)

// Result summarizes a reduced network.
type Result struct {
	Root     string         `json:"root,omitempty" bson:"root,omitempty"`
	Power    float64        `json:"power" bson:"power"`   // Total downstream power at the feed point
	Moment   float64        `json:"moment" bson:"moment"` // Worst-case moment at the feed point
	Branches []BranchResult `json:"branches,omitempty" bson:"branches,omitempty"`
	Warnings []Warning      `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Reversed []string       `json:"reversed,omitempty" bson:"reversed,omitempty"`
}

// BranchResult is the lumped view of one segment after reduction.
type BranchResult struct {
	Segment string  `json:"segment" bson:"segment"`
	Parent  string  `json:"parent,omitempty" bson:"parent,omitempty"`
	Depth   int     `json:"depth" bson:"depth"`
	Offset  float64 `json:"offset" bson:"offset"` // Attachment offset on the parent
	Length  float64 `json:"length" bson:"length"`
	Loads   int     `json:"loads" bson:"loads"`
	Power   float64 `json:"power" bson:"power"`
	Moment  float64 `json:"moment" bson:"moment"`
}

// Compute builds the topology of segments and loads, selects the feed
// branch, and reduces it.
//
// Empty input (no segments or no loads) is not an error: the result is
// zero. Topology failures (no root, several roots, colliding offsets) and
// invalid input are returned as errors; nothing partial is returned with
// them.
func Compute(ctx context.Context, segments []*geom.Segment, loads []Load, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(segments) == 0 || len(loads) == 0 {
		return &Result{}, nil
	}

	t, err := Build(ctx, segments, loads, opts)
	if err != nil {
		return nil, err
	}
	root, err := SelectRoot(t)
	if err != nil {
		return nil, err
	}
	origin := Reduce(root, opts.Scale)

	res := &Result{
		Root:     root.ID(),
		Power:    origin.Power,
		Moment:   origin.Moment,
		Warnings: t.Warnings,
		Reversed: t.Reversed,
	}
	root.Walk(func(b *Branch, depth int) {
		br := BranchResult{
			Segment: b.ID(),
			Depth:   depth,
			Offset:  b.Offset(),
			Length:  b.Segment.Length(),
			Loads:   b.LoadCount(),
			Power:   b.Origin().Power,
			Moment:  b.Origin().Moment,
		}
		if b.Parent != nil {
			br.Parent = b.Parent.ID()
		}
		res.Branches = append(res.Branches, br)
	})
	return res, nil
}

// ComputeMoment is Compute reduced to the feed-point moment.
func ComputeMoment(ctx context.Context, segments []*geom.Segment, loads []Load, opts Options) (float64, error) {
	res, err := Compute(ctx, segments, loads, opts)
	if err != nil {
		return 0, err
	}
	return res.Moment, nil
}
