package network

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/geom"
)

// offsetEpsilon is the distance below which two offsets on one segment are
// considered the same attachment point.
const offsetEpsilon = 1e-9

// Load is a point demand.
type Load struct {
	ID       string     // Optional identifier used in reports
	Position geom.Point // Location in drawing units
	Power    float64    // Demand in watts
}

// Validate checks the load's identifier, position, and power.
func (l Load) Validate() error {
	if err := errors.ValidateLoadID(l.ID); err != nil {
		return err
	}
	if math.IsNaN(l.Position[0]) || math.IsNaN(l.Position[1]) ||
		math.IsInf(l.Position[0], 0) || math.IsInf(l.Position[1], 0) {
		return errors.New(errors.ErrCodeInvalidLoad, "load %s: position is not finite", l.label())
	}
	if err := errors.ValidatePower(l.Power); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLoad, err, "load %s", l.label())
	}
	return nil
}

func (l Load) label() string {
	if l.ID != "" {
		return l.ID
	}
	return fmt.Sprintf("at (%g, %g)", l.Position[0], l.Position[1])
}

// Kind tells what a Node stands for. It is fixed when the node is created.
type Kind int

const (
	// KindOrigin is the feed point of a branch, always at offset 0.
	KindOrigin Kind = iota
	// KindLoad is a point load attached to a branch.
	KindLoad
	// KindBranch is a child segment attached to a branch.
	KindBranch
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindOrigin:
		return "origin"
	case KindLoad:
		return "load"
	case KindBranch:
		return "branch"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one attachment point on a branch.
//
// Before reduction, Power holds the load demand (zero for origins and
// branches) and Moment is zero. [Reduce] overwrites both in place.
type Node struct {
	Kind     Kind
	Offset   float64 // Arc length from the owning branch's start
	Power    float64 // Downstream power
	Distance float64 // Gap to the previous node on the same branch
	Moment   float64 // Worst-case moment below this point

	Load   *Load   // Set for KindLoad
	Branch *Branch // Set for KindBranch
}

// Label describes the node for reports and diagrams.
func (n *Node) Label() string {
	switch n.Kind {
	case KindLoad:
		return "load " + n.Load.label()
	case KindBranch:
		return "segment " + n.Branch.Segment.ID
	}
	return "origin"
}

// Branch is a segment together with everything attached to it.
//
// Children are kept sorted by offset; Children[0] is the origin node once
// the branch has been sequenced.
type Branch struct {
	Segment  *geom.Segment
	IsChild  bool
	Parent   *Branch
	Children []*Node

	index   int
	reduced bool
}

// ID returns the segment's identifier.
func (b *Branch) ID() string { return b.Segment.ID }

// Origin returns the node at offset 0. After [Reduce] it carries the
// branch's lumped power and moment.
func (b *Branch) Origin() *Node {
	if len(b.Children) == 0 {
		return nil
	}
	return b.Children[0]
}

// Subbranches returns the child segments in offset order.
func (b *Branch) Subbranches() []*Branch {
	var out []*Branch
	for _, n := range b.Children {
		if n.Kind == KindBranch {
			out = append(out, n.Branch)
		}
	}
	return out
}

// LoadCount returns the number of loads attached directly to b.
func (b *Branch) LoadCount() int {
	count := 0
	for _, n := range b.Children {
		if n.Kind == KindLoad {
			count++
		}
	}
	return count
}

// Offset returns where b attaches on its parent, or 0 for a root.
func (b *Branch) Offset() float64 {
	if b.Parent == nil {
		return 0
	}
	for _, n := range b.Parent.Children {
		if n.Branch == b {
			return n.Offset
		}
	}
	return 0
}

// Walk visits b and every nested branch in depth-first, offset order.
// The depth of b itself is 0.
func (b *Branch) Walk(fn func(br *Branch, depth int)) {
	b.walk(fn, 0)
}

func (b *Branch) walk(fn func(*Branch, int), depth int) {
	fn(b, depth)
	for _, sub := range b.Subbranches() {
		sub.walk(fn, depth+1)
	}
}

func (b *Branch) add(n *Node) {
	b.Children = append(b.Children, n)
}

// sequence sorts the children by offset and derives the gap distances.
// Offsets that coincide are reported instead of being overwritten.
func (b *Branch) sequence() error {
	slices.SortStableFunc(b.Children, func(x, y *Node) int {
		switch {
		case x.Offset < y.Offset:
			return -1
		case x.Offset > y.Offset:
			return 1
		}
		return 0
	})

	for i, n := range b.Children {
		if i == 0 {
			n.Distance = n.Offset
			continue
		}
		prev := b.Children[i-1]
		if n.Offset-prev.Offset < offsetEpsilon {
			return errors.New(errors.ErrCodeDuplicateOffset,
				"segment %s: %s and %s both attach at offset %g",
				b.ID(), prev.Label(), n.Label(), n.Offset)
		}
		n.Distance = n.Offset - prev.Offset
	}
	return nil
}
