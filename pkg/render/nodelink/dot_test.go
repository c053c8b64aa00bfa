package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/cablemoment/pkg/geom"
	"github.com/matzehuels/cablemoment/pkg/network"
)

func sampleResult() *network.Result {
	return &network.Result{
		Root:   "trunk",
		Power:  1500,
		Moment: 0.125,
		Branches: []network.BranchResult{
			{Segment: "trunk", Length: 100, Loads: 1, Power: 1500, Moment: 0.125},
			{Segment: "drop", Parent: "trunk", Depth: 1, Offset: 50, Length: 40, Loads: 1, Power: 1000, Moment: 0.04},
			{Segment: "spur", Parent: "trunk", Depth: 1, Offset: 80, Length: 10, Loads: 0, Power: 0, Moment: 0},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleResult(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{`"seg:trunk"`, `"seg:drop"`, `"seg:spur"`, `"feed"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing node %s", want)
		}
	}
	for _, want := range []string{`"feed" -> "seg:trunk";`, `"seg:trunk" -> "seg:drop";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing edge %s", want)
		}
	}
	if strings.Contains(dot, "@ 50") {
		t.Error("ToDOT() plain output should not label offsets")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleResult(), Options{Detailed: true})

	if !strings.Contains(dot, `[label="@ 50"]`) {
		t.Error("ToDOT() detailed output missing offset label")
	}
	if !strings.Contains(dot, `length 40`) {
		t.Error("ToDOT() detailed output missing length")
	}
}

func TestToDOT_Highlight(t *testing.T) {
	dot := ToDOT(sampleResult(), Options{Highlight: true})

	var hot []string
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "penwidth=2") {
			hot = append(hot, line)
		}
	}
	if len(hot) != 1 || !strings.Contains(hot[0], `"seg:drop"`) {
		t.Errorf("ToDOT() should highlight only drop, got %v", hot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(&network.Result{}, Options{})
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() empty result should have no edges")
	}
	if !strings.Contains(dot, `"feed"`) {
		t.Error("ToDOT() empty result should still draw the feed")
	}
}

func TestToDOT_FromCompute(t *testing.T) {
	segments := []*geom.Segment{
		geom.NewSegment("A", geom.Pt(0, 0), geom.Pt(100, 0)),
		geom.NewSegment("B", geom.Pt(100, 0), geom.Pt(100, 50)),
	}
	loads := []network.Load{{Position: geom.Pt(100, 50), Power: 2000}}

	res, err := network.Compute(context.Background(), segments, loads, network.Options{})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	dot := ToDOT(res, Options{})
	if !strings.Contains(dot, `"seg:A" -> "seg:B";`) {
		t.Errorf("ToDOT() missing A -> B edge:\n%s", dot)
	}
	if !strings.Contains(dot, "P 2 kW") {
		t.Errorf("ToDOT() missing power label:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	br := network.BranchResult{Segment: "drop", Power: 2500, Moment: 0.3, Length: 40, Loads: 2}

	if got, want := fmtLabel(br, false), "drop\nP 2.5 kW\nM 0.3 kW·m"; got != want {
		t.Errorf("fmtLabel() simple = %q, want %q", got, want)
	}
	detailed := fmtLabel(br, true)
	if !strings.HasSuffix(detailed, "length 40\n2 loads") {
		t.Errorf("fmtLabel() detailed = %q", detailed)
	}
}

func TestHeaviestIgnoresRoot(t *testing.T) {
	res := &network.Result{Branches: []network.BranchResult{{Segment: "root", Moment: 9}}}
	if got := heaviest(res); got != "" {
		t.Errorf("heaviest() = %q, want empty", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleResult(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(string(svg), "trunk") {
		t.Error("RenderSVG() output missing segment label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() should fail on malformed DOT")
	}
}
