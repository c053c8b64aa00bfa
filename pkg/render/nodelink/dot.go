// Package nodelink renders a computed network as a node-link diagram.
//
// Segments are boxes and attachments are arrows from parent to child. The
// feed point is drawn as a separate node carrying the network totals, so
// the diagram reads top-down from the supply.
//
// The diagram is built from [network.Result.Branches] only, which means a
// result read back from a cache or a store renders the same as a fresh one.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cablemoment/pkg/network"
	"github.com/matzehuels/cablemoment/pkg/render"
)

// feedID is the DOT identifier of the supply node.
const feedID = "feed"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds length, load count, and attachment offsets to labels.
	// When false, boxes show the segment ID, power, and moment.
	Detailed bool

	// Highlight marks the branch with the largest moment below the root.
	Highlight bool
}

// ToDOT converts a computed network to Graphviz DOT source.
// An empty result yields a graph with only the feed node.
func ToDOT(res *network.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [shape=doublecircle, fillcolor=lightgrey, label=%q];\n",
		feedID, fmt.Sprintf("feed\n%s\n%s", fmtPower(res.Power), fmtMoment(res.Moment)))

	hot := ""
	if opts.Highlight {
		hot = heaviest(res)
	}
	for _, br := range res.Branches {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(br, opts.Detailed))}
		if br.Segment == hot {
			attrs = append(attrs, "fillcolor=\"#ffe0b2\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(br.Segment), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, br := range res.Branches {
		if br.Parent == "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", feedID, nodeID(br.Segment))
			continue
		}
		if opts.Detailed {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(br.Parent), nodeID(br.Segment), "@ "+fmtNumber(br.Offset))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(br.Parent), nodeID(br.Segment))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID keeps segment IDs from colliding with the feed node.
func nodeID(segment string) string {
	return "seg:" + segment
}

func fmtLabel(br network.BranchResult, detailed bool) string {
	parts := []string{br.Segment, fmtPower(br.Power), fmtMoment(br.Moment)}
	if detailed {
		parts = append(parts,
			"length "+fmtNumber(br.Length),
			fmt.Sprintf("%d loads", br.Loads))
	}
	return strings.Join(parts, "\n")
}

func fmtPower(w float64) string {
	return fmt.Sprintf("P %s kW", fmtNumber(w/1000))
}

func fmtMoment(m float64) string {
	return fmt.Sprintf("M %s kW·m", fmtNumber(m))
}

func fmtNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// heaviest returns the non-root branch with the largest moment.
func heaviest(res *network.Result) string {
	best, bestMoment := "", 0.0
	for _, br := range res.Branches {
		if br.Parent != "" && br.Moment > bestMoment {
			best, bestMoment = br.Segment, br.Moment
		}
	}
	return best
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The result can be converted further with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from
// the origin of its own viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
