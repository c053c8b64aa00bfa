package io

import (
	"context"
	"slices"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/geom"
	"github.com/matzehuels/cablemoment/pkg/network"
)

// Network is the on-disk and on-wire form of a cable network.
type Network struct {
	Name     string    `json:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Segments []Segment `json:"segments" toml:"segments" bson:"segments"`
	Loads    []Load    `json:"loads" toml:"loads" bson:"loads"`
}

// Segment is one cable run, vertices in start-to-end order.
type Segment struct {
	ID     string       `json:"id" toml:"id" bson:"id"`
	Points [][2]float64 `json:"points" toml:"points" bson:"points"`
}

// Load is a point demand in watts.
type Load struct {
	ID       string     `json:"id,omitempty" toml:"id,omitempty" bson:"id,omitempty"`
	Position [2]float64 `json:"position" toml:"position" bson:"position"`
	Power    float64    `json:"power" toml:"power" bson:"power"`
}

// Geometry converts the document into the values the network package
// computes on. The returned segments are independent of n.
func (n *Network) Geometry() ([]*geom.Segment, []network.Load) {
	segments := make([]*geom.Segment, len(n.Segments))
	for i, s := range n.Segments {
		pts := make([]geom.Point, len(s.Points))
		for j, p := range s.Points {
			pts[j] = geom.Pt(p[0], p[1])
		}
		segments[i] = geom.NewSegment(s.ID, pts...)
	}

	loads := make([]network.Load, len(n.Loads))
	for i, l := range n.Loads {
		loads[i] = network.Load{ID: l.ID, Position: geom.Pt(l.Position[0], l.Position[1]), Power: l.Power}
	}
	return segments, loads
}

// FromGeometry builds a document from computed-on values.
func FromGeometry(name string, segments []*geom.Segment, loads []network.Load) *Network {
	n := &Network{
		Name:     name,
		Segments: make([]Segment, len(segments)),
		Loads:    make([]Load, len(loads)),
	}
	for i, s := range segments {
		pts := make([][2]float64, len(s.Line))
		for j, p := range s.Line {
			pts[j] = [2]float64{p[0], p[1]}
		}
		n.Segments[i] = Segment{ID: s.ID, Points: pts}
	}
	for i, l := range loads {
		n.Loads[i] = Load{ID: l.ID, Position: [2]float64{l.Position[0], l.Position[1]}, Power: l.Power}
	}
	return n
}

// ReverseSegments flips the vertex order of every segment whose ID is in
// ids and returns how many were flipped. It applies a computation's
// reorientations back onto the document.
func (n *Network) ReverseSegments(ids []string) int {
	count := 0
	for i := range n.Segments {
		if slices.Contains(ids, n.Segments[i].ID) {
			slices.Reverse(n.Segments[i].Points)
			count++
		}
	}
	return count
}

// ReverseSegment flips the document segment with seg's ID. It lets a
// document act as the [network.Reverser] of its own computation, so that
// reorientations found while building the topology are written back.
func (n *Network) ReverseSegment(_ context.Context, seg *geom.Segment) error {
	for i := range n.Segments {
		if n.Segments[i].ID == seg.ID {
			slices.Reverse(n.Segments[i].Points)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "segment %s is not in network %q", seg.ID, n.Name)
}

// Clone returns a deep copy of n.
func (n *Network) Clone() *Network {
	c := &Network{
		Name:     n.Name,
		Segments: make([]Segment, len(n.Segments)),
		Loads:    slices.Clone(n.Loads),
	}
	for i, s := range n.Segments {
		c.Segments[i] = Segment{ID: s.ID, Points: slices.Clone(s.Points)}
	}
	return c
}

var _ network.Reverser = (*Network)(nil)

// TotalPower sums the demand of every load in the document.
func (n *Network) TotalPower() float64 {
	total := 0.0
	for _, l := range n.Loads {
		total += l.Power
	}
	return total
}
