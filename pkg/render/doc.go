// Package render turns computed cable networks into diagrams.
//
// The [nodelink] subpackage draws the reduced branch tree with Graphviz:
// one box per segment, labelled with its lumped power and moment, and one
// edge per attachment, labelled with the offset on the parent.
//
//	dot := nodelink.ToDOT(result, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert SVG output through the external rsvg-convert
// tool from librsvg.
//
// [nodelink]: github.com/matzehuels/cablemoment/pkg/render/nodelink
package render
