// Package network reduces a cable network to its worst-case electrical moment.
//
// # Overview
//
// A network arrives as an unordered set of cable runs ([geom.Segment]) and
// point loads ([Load]) related only by spatial proximity. This package turns
// it into a rooted tree of [Branch] values and folds that tree bottom-up into
// a single (power, moment) pair at the feed point.
//
// The moment is the largest, over every load, of the sum of
// downstream power times cable length along the path from the feed to that
// load. It is the usual proxy for worst-case voltage drop when sizing
// conductors.
//
// # Pipeline
//
// [Compute] runs the four stages in order:
//
//  1. [Build] creates one branch per segment, attaches child segments and
//     loads that lie within the tolerance, reorients children so that their
//     start is the attachment point, and sequences every branch's nodes by
//     offset.
//  2. [SelectRoot] picks the single unparented branch.
//  3. [Reduce] walks the tree bottom-up and returns the origin node of the
//     root branch.
//  4. The reduced tree is summarized into a [Result].
//
// # Topology rules
//
// Attachment is decided pairwise, in input order, with tolerance T
// (10 drawing units by default):
//
//   - A child touches a parent when one of its endpoints is within T of the
//     parent polyline. The closer endpoint is used; ties prefer the start.
//   - A touch within T of the parent's own start is an upstream join, not a
//     child, and is ignored.
//   - A touch that would close a cycle is ignored.
//   - A child keeps the first parent it finds. Later candidates are reported
//     as [WarnAmbiguous].
//   - A load attaches to the nearest segment within T.
//
// Loads that attach nowhere and unparented segments that carry nothing are
// reported as [WarnUnattached]. Two attachments at the same offset, zero
// roots and several roots are errors.
//
// # Units
//
// Lengths are drawing units (millimetres by convention) and power is in
// watts. The default scale of 1e-6 yields moments in kW·m.
package network
