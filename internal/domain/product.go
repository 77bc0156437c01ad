package domain

import "strings"

// ProductRecord is one row of a Shopify product export. Passthrough columns
// stay untouched inside Row; only the SEO title cell is ever rewritten.
type ProductRecord struct {
	Title          string
	BodyHTML       string
	Status         string
	SEOTitle       string
	SEODescription string

	// Row holds every cell of the original line in header order.
	Row []string
}

// IsActive reports whether the product is live in the shop.
func (r ProductRecord) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "active")
}

// Catalog is an ordered product export with its header preserved for
// round-trip output.
type Catalog struct {
	Header      []string
	SEOTitleCol int
	Records     []ProductRecord
}

// SetSEOTitle overwrites the SEO title of the record at index i, keeping the
// raw row in sync with the typed field.
func (c *Catalog) SetSEOTitle(i int, title string) {
	c.Records[i].SEOTitle = title
	c.Records[i].Row[c.SEOTitleCol] = title
}
