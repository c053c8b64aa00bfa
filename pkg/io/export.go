package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/network"
)

// WriteJSON encodes a network document as indented JSON.
// The output can be re-imported with [ReadJSON].
func WriteJSON(n *Network, w io.Writer) error {
	return writeIndented(n, w)
}

// WriteTOML encodes a network document as TOML.
// The output can be re-imported with [ReadTOML].
func WriteTOML(n *Network, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(n); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write encodes a network in the given format.
func Write(n *Network, w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(n, w)
	case FormatTOML:
		return WriteTOML(n, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported network format %q", format)
}

// Export writes a network document to path, choosing the encoder from the
// file extension.
func Export(n *Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(n, f, FormatFromPath(path))
}

// WriteResultJSON encodes a computation result as indented JSON.
func WriteResultJSON(res *network.Result, w io.Writer) error {
	return writeIndented(res, w)
}

func writeIndented(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
