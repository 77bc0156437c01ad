package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/ports"
)

// Sink writes a processed catalog to disk. The file is assembled under a
// temporary name in the destination directory and renamed into place, so a
// failed write never leaves a partial output behind.
type Sink struct {
	path string
}

var _ ports.RecordSink = (*Sink)(nil)

// NewSink wires a sink for one destination file.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Path reports the destination the catalog will be written to.
func (s *Sink) Path() string {
	return s.path
}

// Write emits header and rows in original order. Only cells the caller
// mutated through the catalog differ from the input.
func (s *Sink) Write(ctx context.Context, catalog *domain.Catalog) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".seo-out-*.csv")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeCatalog(ctx, tmp, catalog); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp output: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move output into place: %w", err)
	}

	return nil
}

func writeCatalog(ctx context.Context, f *os.File, catalog *domain.Catalog) error {
	w := csv.NewWriter(f)

	if err := w.Write(catalog.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range catalog.Records {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
		if err := w.Write(rec.Row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
