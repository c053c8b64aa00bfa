// Package io reads and writes cable network documents.
//
// # Overview
//
// A network document lists cable runs and point loads. It is the hand-off
// format between whatever owns the drawing (a CAD export, a survey tool, a
// hand-written file) and the moment computation. Two encodings are
// supported: JSON and TOML. [Import] and [Export] pick one from the file
// extension.
//
// # JSON Format
//
//	{
//	  "name": "workshop",
//	  "segments": [
//	    {"id": "trunk", "points": [[0, 0], [12000, 0]]},
//	    {"id": "drop", "points": [[6000, 0], [6000, 4000]]}
//	  ],
//	  "loads": [
//	    {"id": "lathe", "position": [6000, 4000], "power": 7500}
//	  ]
//	}
//
// Segment points run from the feed side to the far end. Coordinates are
// drawing units (millimetres by convention) and power is in watts.
//
// # Geometry
//
// [Network.Geometry] converts a document into [geom.Segment] and
// [network.Load] values. [Network.ReverseSegments] applies the
// reorientations reported by a computation back onto the document, which
// lets callers persist corrected drawing directions.
//
// # Results
//
// [WriteResultJSON] encodes a [network.Result]: feed-point power and moment,
// per-branch figures, warnings, and reoriented segment IDs.
package io
