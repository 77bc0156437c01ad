package pipeline

import (
	"strings"
	"unicode/utf8"

	"ShopifySEO/internal/domain"
)

// Eligible reports whether a record's SEO title is a rewrite candidate: the
// product is live, has a title to work from, and its SEO title is either
// missing or already over the cap. Everything else passes through unchanged.
func Eligible(rec domain.ProductRecord, maxTitleLength int) bool {
	if !rec.IsActive() {
		return false
	}
	if strings.TrimSpace(rec.Title) == "" {
		return false
	}

	seo := strings.TrimSpace(rec.SEOTitle)
	return seo == "" || utf8.RuneCountInString(seo) > maxTitleLength
}
