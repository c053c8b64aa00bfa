package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/cablemoment/pkg/errors"
)

// Point is a 2D coordinate in drawing units.
type Point = orb.Point

// Pt builds a Point from its coordinates.
func Pt(x, y float64) Point { return Point{x, y} }

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return planar.Distance(p1, p2)
}

// Segment is a directed polyline. The zero value has no vertices and is not
// usable; construct segments with NewSegment.
type Segment struct {
	ID   string         // Identifier used in reports (drawing handle, cable tag)
	Line orb.LineString // Vertices from start to end
}

// NewSegment creates a segment from its vertices in start-to-end order.
func NewSegment(id string, pts ...Point) *Segment {
	return &Segment{ID: id, Line: orb.LineString(pts)}
}

// Validate reports whether the segment has an ID and at least two vertices
// with finite coordinates.
func (s *Segment) Validate() error {
	if err := errors.ValidateSegmentID(s.ID); err != nil {
		return err
	}
	if len(s.Line) < 2 {
		return errors.New(errors.ErrCodeInvalidSegment, "segment %s needs at least 2 points, got %d", s.ID, len(s.Line))
	}
	for i, p := range s.Line {
		if !finite(p[0]) || !finite(p[1]) {
			return errors.New(errors.ErrCodeInvalidSegment, "segment %s: point %d is not finite", s.ID, i)
		}
	}
	return nil
}

// Start returns the first vertex.
func (s *Segment) Start() Point { return s.Line[0] }

// End returns the last vertex.
func (s *Segment) End() Point { return s.Line[len(s.Line)-1] }

// Length returns the total arc length.
func (s *Segment) Length() float64 { return planar.Length(s.Line) }

// Bound returns the axis-aligned bounding box.
func (s *Segment) Bound() orb.Bound { return s.Line.Bound() }

// Reverse flips the vertex order in place.
func (s *Segment) Reverse() { s.Line.Reverse() }

// Clone returns a deep copy. Reversing the clone leaves s untouched.
func (s *Segment) Clone() *Segment {
	return &Segment{ID: s.ID, Line: s.Line.Clone()}
}

// ClosestPoint returns the point of the polyline nearest to p. The polyline
// is not extended past its endpoints.
func (s *Segment) ClosestPoint(p Point) Point {
	q, _ := s.project(p)
	return q
}

// OffsetAt returns the arc length from the start to the projection of p.
// For a point lying on the segment this is its distance along the cable.
func (s *Segment) OffsetAt(p Point) float64 {
	_, off := s.project(p)
	return off
}

// project finds the nearest point to p and its arc-length offset. On ties
// the earliest sub-segment wins, so the result is stable for a given
// orientation.
func (s *Segment) project(p Point) (Point, float64) {
	if len(s.Line) == 0 {
		return p, 0
	}
	best := s.Line[0]
	bestDist := Distance(p, best)
	bestOff := 0.0

	walked := 0.0
	for i := 1; i < len(s.Line); i++ {
		a, b := s.Line[i-1], s.Line[i]
		q, t := projectOnto(a, b, p)
		if d := Distance(p, q); d < bestDist {
			best, bestDist = q, d
			bestOff = walked + t*Distance(a, b)
		}
		walked += Distance(a, b)
	}
	return best, bestOff
}

// projectOnto clamps the projection of p onto the line ab to the segment and
// returns the point together with its parameter t in [0, 1].
func projectOnto(a, b, p Point) (Point, float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Point{a[0] + t*dx, a[1] + t*dy}, t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
