package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches page chrome that never carries answerable content.
const noiseSelector = "script, style, header, footer, nav, aside, form"

// contentSelectors are tried in order; the first present one is the page body.
var contentSelectors = []string{"main", "article", "body"}

// ExtractText strips page chrome from doc and returns its readable text,
// one trimmed phrase per line with blank lines removed. doc is modified.
func ExtractText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	root := doc.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			root = found
			break
		}
	}
	return CleanText(root.Text())
}

// CleanText trims every line, splits lines on double spaces and drops
// empty fragments.
func CleanText(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })

	var b strings.Builder
	for _, line := range lines {
		for phrase := range strings.SplitSeq(strings.TrimSpace(line), "  ") {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(phrase)
		}
	}
	return b.String()
}
