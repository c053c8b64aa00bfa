package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cablemoment/pkg/errors"
)

// Format names accepted by [Read] and [Write].
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// ReadJSON decodes a JSON network document from r.
//
// The input must be a JSON object with "segments" and "loads" arrays:
//
//	{
//	  "segments": [{"id": "A", "points": [[0, 0], [100, 0]]}],
//	  "loads": [{"id": "pump", "position": [50, 0], "power": 1500}]
//	}
//
// Unknown fields are rejected so that misspelled keys do not silently drop
// geometry. ReadJSON does not validate the geometry itself; that happens
// when the network is computed. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Network, error) {
	var n Network
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON network")
	}
	return &n, nil
}

// ReadTOML decodes a TOML network document from r.
//
//	name = "workshop"
//
//	[[segments]]
//	id = "A"
//	points = [[0, 0], [100, 0]]
//
//	[[loads]]
//	id = "pump"
//	position = [50, 0]
//	power = 1500
//
// Keys that do not map onto the document are rejected.
func ReadTOML(r io.Reader) (*Network, error) {
	var n Network
	md, err := toml.NewDecoder(r).Decode(&n)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML network")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys in TOML network: %v", undecoded)
	}
	return &n, nil
}

// Read decodes a network in the given format.
func Read(r io.Reader, format string) (*Network, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported network format %q", format)
}

// FormatFromPath infers the document format from a file extension.
// Anything that is not .toml is treated as JSON.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Import reads the network file at path, choosing the decoder from the
// file extension.
func Import(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
