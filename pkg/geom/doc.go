// Package geom provides the planar geometry used to discover cable topology.
//
// # Overview
//
// A [Segment] is a directed polyline representing one cable run. Its first
// vertex is the start (feed side) and its last vertex is the end. The package
// answers the three questions topology discovery needs:
//
//   - how far apart two points are ([Distance])
//   - which point of a segment is nearest to a given point ([Segment.ClosestPoint])
//   - how far along a segment a point lies ([Segment.OffsetAt])
//
// Segments can be reversed in place with [Segment.Reverse]. After reversal,
// offsets are measured from the new start; reversing twice restores the
// original offsets.
//
// # Dependencies
//
// Points and polylines are [github.com/paulmach/orb] values, so segments can be
// handed to any orb-aware code without conversion. Lengths and point
// distances use [github.com/paulmach/orb/planar].
package geom
