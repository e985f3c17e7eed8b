// Package extract turns a saved borrowing-history page into book records.
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lepinkainen/shelfcovers/internal/book"
)

// Extractor resolves book records using a Layout
type Extractor struct {
	layout Layout
}

// New creates an extractor for the given layout
func New(layout Layout) *Extractor {
	return &Extractor{layout: layout}
}

// Extract parses html with the default layout
func Extract(htmlText string) []book.Record {
	return New(DefaultLayout()).Extract(htmlText)
}

// Extract returns one record per candidate item that has a title, in document order.
// A record's ID is its candidate position plus one, so IDs skip over untitled candidates.
// Malformed markup never fails; a page without items yields an empty slice.
func (e *Extractor) Extract(htmlText string) []book.Record {
	records := []book.Record{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		slog.Debug("Failed to parse HTML", "error", err)
		return records
	}

	items := e.candidates(doc)
	items.Each(func(idx int, item *goquery.Selection) {
		title := firstNonEmpty(item, e.layout.Title)
		if title == "" {
			slog.Debug("Skipping item without title", "index", idx)
			return
		}

		isbn := firstNonEmpty(item, e.layout.ISBN)
		if isbn == "" {
			isbn = fmt.Sprintf("%03d", idx+1)
		}

		records = append(records, book.NewRecord(
			idx+1,
			title,
			firstNonEmpty(item, e.layout.Author),
			isbn,
			firstNonEmpty(item, e.layout.Date),
			firstNonEmpty(item, e.layout.Cover),
		))
	})

	return records
}

// candidates returns the item elements, falling back to table rows when the page has
// no elements carrying a known item class.
func (e *Extractor) candidates(doc *goquery.Document) *goquery.Selection {
	if sel := e.layout.itemSelector(); sel != "" {
		items := doc.Find(sel)
		if items.Length() > 0 {
			return items
		}
	}
	if e.layout.FallbackItem == "" {
		return doc.Selection.Slice(0, 0)
	}
	return doc.Find(e.layout.FallbackItem)
}

// strippedText concatenates every text node under the selection, each trimmed of
// surrounding whitespace, with no separator.
func strippedText(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return sb.String()
}
