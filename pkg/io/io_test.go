package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/geom"
	"github.com/matzehuels/cablemoment/pkg/network"
)

const sampleJSON = `{
  "name": "workshop",
  "segments": [
    {"id": "trunk", "points": [[0, 0], [100, 0]]},
    {"id": "drop", "points": [[50, 0], [50, 40]]}
  ],
  "loads": [
    {"id": "lathe", "position": [50, 40], "power": 1000},
    {"position": [100, 0], "power": 500}
  ]
}`

const sampleTOML = `
name = "workshop"

[[segments]]
id = "trunk"
points = [[0, 0], [100, 0]]

[[segments]]
id = "drop"
points = [[50, 0], [50, 40]]

[[loads]]
id = "lathe"
position = [50, 40]
power = 1000

[[loads]]
position = [100.0, 0.0]
power = 500
`

func TestReadJSON(t *testing.T) {
	n, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	assert.Equal(t, "workshop", n.Name)
	require.Len(t, n.Segments, 2)
	require.Len(t, n.Loads, 2)
	assert.Equal(t, [][2]float64{{50, 0}, {50, 40}}, n.Segments[1].Points)
	assert.Equal(t, 1500.0, n.TotalPower())
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"segments": [`},
		{"unknown field", `{"segmnts": []}`},
		{"wrong type", `{"segments": "A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
		})
	}
}

func TestReadTOMLMatchesJSON(t *testing.T) {
	fromJSON, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	fromTOML, err := ReadTOML(strings.NewReader(sampleTOML))
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromTOML)
}

func TestReadTOMLUnknownKey(t *testing.T) {
	_, err := ReadTOML(strings.NewReader("[[segments]]\nid = \"A\"\npts = [[0, 0]]\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read(strings.NewReader("{}"), "yaml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"net.json":     FormatJSON,
		"net.toml":     FormatTOML,
		"NET.TOML":     FormatTOML,
		"net":          FormatJSON,
		"dir/net.txt":  FormatJSON,
		"dir.toml/net": FormatJSON,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	n, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	segments, loads := n.Geometry()
	require.Len(t, segments, 2)
	assert.Equal(t, "drop", segments[1].ID)
	assert.Equal(t, 40.0, segments[1].Length())
	assert.Equal(t, "", loads[1].ID)
	assert.Equal(t, 500.0, loads[1].Power)

	assert.Equal(t, n, FromGeometry(n.Name, segments, loads))
}

func TestGeometryIsIndependent(t *testing.T) {
	n, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	segments, _ := n.Geometry()
	segments[0].Reverse()
	assert.Equal(t, [2]float64{0, 0}, n.Segments[0].Points[0])
}

func TestReverseSegments(t *testing.T) {
	n, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, 1, n.ReverseSegments([]string{"drop", "missing"}))
	assert.Equal(t, [][2]float64{{50, 40}, {50, 0}}, n.Segments[1].Points)
	assert.Equal(t, [][2]float64{{0, 0}, {100, 0}}, n.Segments[0].Points)
}

func TestNetworkAsReverser(t *testing.T) {
	doc := &Network{
		Name: "yard",
		Segments: []Segment{
			{ID: "trunk", Points: [][2]float64{{0, 0}, {100, 0}}},
			{ID: "drop", Points: [][2]float64{{50, 40}, {50, 0}}},
		},
		Loads: []Load{{Position: [2]float64{50, 40}, Power: 1000}},
	}
	fixed := doc.Clone()
	segments, loads := doc.Geometry()

	res, err := network.Compute(t.Context(), segments, loads, network.Options{Reverser: fixed})
	require.NoError(t, err)
	assert.Equal(t, []string{"drop"}, res.Reversed)
	assert.Equal(t, [][2]float64{{50, 0}, {50, 40}}, fixed.Segments[1].Points)
	assert.Equal(t, [][2]float64{{50, 40}, {50, 0}}, doc.Segments[1].Points, "clone must be independent")

	segments, loads = fixed.Geometry()
	again, err := network.Compute(t.Context(), segments, loads, network.Options{})
	require.NoError(t, err)
	assert.Empty(t, again.Reversed)
	assert.InDelta(t, res.Moment, again.Moment, 1e-12)
}

func TestReverseSegmentUnknown(t *testing.T) {
	doc := &Network{Name: "yard"}
	err := doc.ReverseSegment(t.Context(), &geom.Segment{ID: "ghost"})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestExportImport(t *testing.T) {
	n, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"net.json", "net.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Export(n, path))
			got, err := Import(path)
			require.NoError(t, err)
			assert.Equal(t, n, got)
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestWriteResultJSON(t *testing.T) {
	n, err := ReadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	segments, loads := n.Geometry()

	res, err := network.Compute(t.Context(), segments, loads, network.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteResultJSON(res, &buf))
	out := buf.String()
	assert.Contains(t, out, `"root": "trunk"`)
	assert.Contains(t, out, `"power": 1500`)
	assert.NotContains(t, out, "Tree")
}

func TestExportCreateError(t *testing.T) {
	n := &Network{}
	err := Export(n, filepath.Join(t.TempDir(), "missing-dir", "net.json"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrCodeFileNotFound))
}
