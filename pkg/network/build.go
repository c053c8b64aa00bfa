package network

import (
	"context"
	"fmt"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/geom"
)

// Topology is the forest produced by Build: one branch per input segment,
// wired together and sequenced, plus whatever the builder had to report.
type Topology struct {
	Branches []*Branch
	Warnings []Warning
	Reversed []string // IDs of segments reoriented so that their start is the attachment point
}

// endpoint identifies which end of a child segment touches its parent.
type endpoint int

const (
	atStart endpoint = iota
	atEnd
)

// touch is a candidate parent/child attachment.
type touch struct {
	end   endpoint
	point geom.Point // Nearest point on the parent
}

// Build discovers the attachment structure of segments and loads.
//
// Segments are cloned; the caller's geometry is never modified. Reoriented
// segments are listed in Topology.Reversed and reported to opts.Reverser.
// Loads and segments that attach nowhere produce warnings rather than
// errors. Two attachments at the same offset of one segment produce a
// DUPLICATE_OFFSET error.
func Build(ctx context.Context, segments []*geom.Segment, loads []Load, opts Options) (*Topology, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateInput(segments, loads); err != nil {
		return nil, err
	}

	t := &Topology{Branches: make([]*Branch, len(segments))}
	for i, s := range segments {
		b := &Branch{Segment: s.Clone(), index: i}
		b.add(&Node{Kind: KindOrigin})
		t.Branches[i] = b
	}

	if err := t.attachSegments(ctx, opts); err != nil {
		return nil, err
	}
	t.keySegments()
	t.attachLoads(loads, opts.Tolerance)

	for _, b := range t.Branches {
		if err := b.sequence(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func validateInput(segments []*geom.Segment, loads []Load) error {
	seen := make(map[string]bool, len(segments))
	for i, s := range segments {
		if s == nil {
			return errors.New(errors.ErrCodeInvalidSegment, "segment %d is nil", i)
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return errors.New(errors.ErrCodeInvalidSegment, "duplicate segment ID %s", s.ID)
		}
		seen[s.ID] = true
	}
	for _, l := range loads {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// attachSegments decides every parent/child link and settles orientation.
// Offsets are not computed here because a parent may still be reversed
// after its children have been found.
func (t *Topology) attachSegments(ctx context.Context, opts Options) error {
	tol := opts.Tolerance
	for _, parent := range t.Branches {
		for _, child := range t.Branches {
			if parent == child {
				continue
			}
			m, ok := findTouch(parent.Segment, child.Segment, tol)
			if !ok {
				continue
			}
			if geom.Distance(m.point, parent.Segment.Start()) < tol {
				// The child meets the parent's feed end: it is upstream.
				continue
			}
			if isAncestor(child, parent) {
				continue
			}
			if child.IsChild {
				if child.Parent != parent {
					t.warn(WarnAmbiguous, "segment "+child.ID(),
						fmt.Sprintf("also touches segment %s; kept parent %s", parent.ID(), child.Parent.ID()))
				}
				continue
			}

			if m.end == atEnd {
				child.Segment.Reverse()
				t.Reversed = append(t.Reversed, child.ID())
				if opts.Reverser != nil {
					if err := opts.Reverser.ReverseSegment(ctx, child.Segment); err != nil {
						return errors.Wrap(errors.ErrCodeStorage, err, "reverse segment %s", child.ID())
					}
				}
			}
			child.IsChild = true
			child.Parent = parent
		}
	}
	return nil
}

// keySegments inserts every child branch into its parent at the offset of
// the child's start, using the final orientation of both.
func (t *Topology) keySegments() {
	for _, child := range t.Branches {
		if child.Parent == nil {
			continue
		}
		parent := child.Parent
		parent.add(&Node{
			Kind:   KindBranch,
			Offset: parent.Segment.OffsetAt(child.Segment.Start()),
			Branch: child,
		})
	}
}

// attachLoads gives each load to the nearest segment within tol.
func (t *Topology) attachLoads(loads []Load, tol float64) {
	for i := range loads {
		l := &loads[i]

		var best *Branch
		var bestPoint geom.Point
		bestDist := tol
		matches := 0
		for _, b := range t.Branches {
			p := b.Segment.ClosestPoint(l.Position)
			d := geom.Distance(p, l.Position)
			if d >= tol {
				continue
			}
			matches++
			if best == nil || d < bestDist {
				best, bestPoint, bestDist = b, p, d
			}
		}

		if best == nil {
			t.warn(WarnUnattached, "load "+l.label(), "no segment within tolerance")
			continue
		}
		if matches > 1 {
			t.warn(WarnAmbiguous, "load "+l.label(),
				fmt.Sprintf("within tolerance of %d segments; attached to %s", matches, best.ID()))
		}
		best.add(&Node{
			Kind:   KindLoad,
			Offset: best.Segment.OffsetAt(bestPoint),
			Power:  l.Power,
			Load:   l,
		})
	}
}

func (t *Topology) warn(kind WarningKind, subject, msg string) {
	t.Warnings = append(t.Warnings, Warning{Kind: kind, Subject: subject, Message: msg})
}

// findTouch reports whether an endpoint of child lies within tol of parent.
// The closer endpoint wins; ties prefer the start.
func findTouch(parent, child *geom.Segment, tol float64) (touch, bool) {
	ps := parent.ClosestPoint(child.Start())
	pe := parent.ClosestPoint(child.End())
	ds := geom.Distance(ps, child.Start())
	de := geom.Distance(pe, child.End())

	switch {
	case ds < tol && ds <= de:
		return touch{end: atStart, point: ps}, true
	case de < tol:
		return touch{end: atEnd, point: pe}, true
	}
	return touch{}, false
}

// isAncestor reports whether a is b or lies on b's parent chain.
func isAncestor(a, b *Branch) bool {
	for p := b; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}
