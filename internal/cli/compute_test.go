package cli

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cablemoment/pkg/config"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/sizing"
	"github.com/matzehuels/cablemoment/pkg/store"
)

func TestComputeOptsOverrides(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name  string
		opts  computeOpts
		check func(t *testing.T, o computeOpts)
	}{
		{
			name: "config defaults",
			opts: computeOpts{},
			check: func(t *testing.T, o computeOpts) {
				p := o.pipelineOptions(cfg)
				if p.Tolerance != cfg.Compute.Tolerance || p.Scale != cfg.Compute.Scale {
					t.Errorf("got tolerance %v scale %v, want config values", p.Tolerance, p.Scale)
				}
				if p.Sizing == nil {
					t.Error("sizing should be on by default")
				}
			},
		},
		{
			name: "flag overrides",
			opts: computeOpts{tolerance: 50, scale: 1, system: "single-phase", voltage: 230, fix: true, persist: true},
			check: func(t *testing.T, o computeOpts) {
				p := o.pipelineOptions(cfg)
				if p.Tolerance != 50 || p.Scale != 1 {
					t.Errorf("got tolerance %v scale %v, want 50 and 1", p.Tolerance, p.Scale)
				}
				if p.Sizing.System != sizing.System("single-phase") || p.Sizing.Voltage != 230 {
					t.Errorf("sizing = %+v, want single-phase at 230 V", *p.Sizing)
				}
				if !p.Fix || !p.Persist {
					t.Error("fix and persist should carry over")
				}
			},
		},
		{
			name: "no sizing",
			opts: computeOpts{noSizing: true, system: "single-phase"},
			check: func(t *testing.T, o computeOpts) {
				if p := o.pipelineOptions(cfg); p.Sizing != nil {
					t.Errorf("sizing = %+v, want nil", *p.Sizing)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.opts)
		})
	}
}

func TestRunComputeWritesResult(t *testing.T) {
	c, ctx, cfg := testCLI(t)
	input := writeYard(t)
	output := filepath.Join(t.TempDir(), "result.json")

	if err := c.runCompute(ctx, cfg, input, &computeOpts{output: output}); err != nil {
		t.Fatalf("runCompute() error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var rec store.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("result is not a record: %v", err)
	}
	if rec.Result.Root != "trunk" {
		t.Errorf("root = %q, want trunk", rec.Result.Root)
	}
	if math.Abs(rec.Result.Moment-800) > 1e-6 {
		t.Errorf("moment = %v, want 800", rec.Result.Moment)
	}
	if rec.Sizing == nil && rec.SizingError == "" {
		t.Error("expected a conductor selection or a sizing error")
	}
}

func TestRunComputeFixRewritesInput(t *testing.T) {
	c, ctx, cfg := testCLI(t)
	input := writeYard(t)

	if err := c.runCompute(ctx, cfg, input, &computeOpts{fix: true, noSizing: true}); err != nil {
		t.Fatalf("runCompute() error: %v", err)
	}

	doc, err := io.Import(input)
	if err != nil {
		t.Fatal(err)
	}
	drop := doc.Segments[1]
	if drop.Points[0] != [2]float64{50000, 0} {
		t.Errorf("drop starts at %v, want it reoriented to start at the trunk", drop.Points[0])
	}
}

func TestRunComputeMissingFile(t *testing.T) {
	c, ctx, cfg := testCLI(t)
	if err := c.runCompute(ctx, cfg, filepath.Join(t.TempDir(), "nope.json"), &computeOpts{}); err == nil {
		t.Error("runCompute() should fail for a missing file")
	}
}

func TestRunComputePersistMemoryStore(t *testing.T) {
	c, ctx, cfg := testCLI(t)
	output := filepath.Join(t.TempDir(), "result.json")

	if err := c.runCompute(ctx, cfg, writeYard(t), &computeOpts{persist: true, output: output}); err != nil {
		t.Fatalf("runCompute() error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var rec store.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	if err := store.ValidateID(rec.ID); err != nil {
		t.Errorf("persisted record has no valid ID: %v", err)
	}
}
