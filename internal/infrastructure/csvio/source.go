// Package csvio adapts Shopify product exports to the pipeline's record
// source and sink ports, preserving unknown columns verbatim for round-trip
// output.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"ShopifySEO/internal/domain"
	"ShopifySEO/internal/ports"
)

const (
	colTitle          = "Title"
	colBodyHTML       = "Body (HTML)"
	colStatus         = "Status"
	colSEOTitle       = "SEO Title"
	colSEODescription = "SEO Description"
)

var requiredColumns = []string{colTitle, colBodyHTML, colStatus, colSEOTitle, colSEODescription}

// Source reads a product export from disk.
type Source struct {
	path string
}

var _ ports.RecordSource = (*Source)(nil)

// NewSource wires a source for one input file.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path reports the input file location.
func (s *Source) Path() string {
	return s.path
}

// Load parses the file into an ordered catalog. Structural problems surface
// as *FormatError, undecodable bytes as *EncodingError.
func (s *Source) Load(ctx context.Context) (*domain.Catalog, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, newFormatError("input file is empty")
	}
	if err != nil {
		return nil, newFormatError("read header: %v", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if !rowIsUTF8(header) {
		return nil, &EncodingError{Row: 0}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}

	catalog := &domain.Catalog{
		Header:      header,
		SEOTitleCol: columns[colSEOTitle],
	}

	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load records: %w", err)
		}

		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newFormatError("row %d: %v", row, err)
		}
		if !rowIsUTF8(cells) {
			return nil, &EncodingError{Row: row}
		}

		catalog.Records = append(catalog.Records, domain.ProductRecord{
			Title:          cells[columns[colTitle]],
			BodyHTML:       cells[columns[colBodyHTML]],
			Status:         cells[columns[colStatus]],
			SEOTitle:       cells[columns[colSEOTitle]],
			SEODescription: cells[columns[colSEODescription]],
			Row:            cells,
		})
	}

	return catalog, nil
}

func rowIsUTF8(cells []string) bool {
	for _, cell := range cells {
		if !utf8.ValidString(cell) {
			return false
		}
	}
	return true
}
