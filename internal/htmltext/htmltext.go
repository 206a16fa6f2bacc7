package htmltext

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Decode decodes HTML entities in a fragment, leaving any markup intact.
func Decode(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(fragment))
}

// Clean strips markup from an HTML fragment and returns its text content
// with entities decoded and whitespace collapsed. On a parse failure the
// input is returned unchanged.
func Clean(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
