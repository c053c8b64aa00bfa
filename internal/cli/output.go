package cli

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/cablemoment/pkg/pipeline"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// nopCloser wraps a writer that must stay open, such as stdout.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing. An empty path means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeRecord writes rec as indented JSON to path.
func writeRecord(rec *store.Record, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return writeRecordTo(rec, out)
}

// writeRecordTo writes rec as indented JSON followed by a newline.
func writeRecordTo(rec *store.Record, w io.Writer) error {
	data, err := pipeline.RenderRecord(context.Background(), rec, pipeline.FormatJSON, pipeline.Options{})
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
