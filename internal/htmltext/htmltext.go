// Package htmltext turns the Body (HTML) column into plain prompt material.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Flatten strips markup from an HTML fragment and collapses the remaining
// text onto a single whitespace-normalized line, capped at maxRunes (0 means
// no cap). Inputs that fail to parse are returned collapsed as-is.
func Flatten(html string, maxRunes int) string {
	// Pad tags so adjacent elements do not glue their text together; the
	// whitespace collapse below cleans up the extra separators.
	padded := strings.ReplaceAll(html, "<", " <")

	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(padded)); err == nil {
		text = doc.Text()
	}

	text = strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxRunes]))
}
