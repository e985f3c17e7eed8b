package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultItemClasses are the class names the library site has used for a borrowed item,
// across its card-based layouts.
var DefaultItemClasses = []string{
	"cp-borrowing-history-item",
	"recently-returned-item",
	"cp-borrowing-history-list-item",
}

// isbn13Pattern matches a bare ISBN-13 with one of the two registered prefixes
var isbn13Pattern = regexp.MustCompile(`\b(97[89][0-9]{10})\b`)

// Strategy is one way of resolving a field from a candidate item.
//
// With Pattern set, the pattern's first submatch is searched in the outer HTML of the
// item. Otherwise the first element matching Selector is used, reading Attr when set and
// the element's text when not.
type Strategy struct {
	Selector string
	Attr     string
	Pattern  *regexp.Regexp
}

// Text resolves a field from an element's stripped text
func Text(selector string) Strategy {
	return Strategy{Selector: selector}
}

// Attr resolves a field from an element attribute
func Attr(selector, attr string) Strategy {
	return Strategy{Selector: selector, Attr: attr}
}

// Match resolves a field by scanning the raw item markup
func Match(pattern *regexp.Regexp) Strategy {
	return Strategy{Pattern: pattern}
}

// Resolve returns the value found by this strategy, or "" when nothing matched
func (s Strategy) Resolve(item *goquery.Selection) string {
	if s.Pattern != nil {
		markup, err := goquery.OuterHtml(item)
		if err != nil {
			return ""
		}
		m := s.Pattern.FindStringSubmatch(markup)
		switch {
		case len(m) > 1:
			return m[1]
		case len(m) == 1:
			return m[0]
		}
		return ""
	}

	el := item.Find(s.Selector).First()
	if el.Length() == 0 {
		return ""
	}
	if s.Attr != "" {
		v, _ := el.Attr(s.Attr)
		return strings.TrimSpace(v)
	}
	return strippedText(el)
}

// Layout describes how to locate items in a page and resolve each field.
// Every field list is tried in order and the first non-empty value wins.
type Layout struct {
	ItemClasses  []string
	FallbackItem string

	Title  []Strategy
	Author []Strategy
	ISBN   []Strategy
	Date   []Strategy
	Cover  []Strategy
}

// DefaultLayout returns the layout matching the known borrowing-history markup,
// covering both the card-based and the older tabular page.
func DefaultLayout() Layout {
	return Layout{
		ItemClasses:  append([]string(nil), DefaultItemClasses...),
		FallbackItem: "tr",
		Title: []Strategy{
			Text(".title-content"),
			Attr("a[title]", "title"),
		},
		Author: []Strategy{
			Text(".author"),
			Text(`span[itemprop="author"]`),
		},
		ISBN: []Strategy{
			Text("span.isbn"),
			Match(isbn13Pattern),
		},
		Date: []Strategy{
			Text(".date"),
			Text("td.cp-borrowing-history-date"),
		},
		// highest quality first
		Cover: []Strategy{
			Attr("img", "data-src"),
			Attr("img", "data-large"),
			Attr("img", "src"),
		},
	}
}

// WithItemClasses returns a copy of the layout with extra item class names appended
func (l Layout) WithItemClasses(classes ...string) Layout {
	merged := append([]string(nil), l.ItemClasses...)
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		merged = append(merged, c)
	}
	l.ItemClasses = merged
	return l
}

// ItemSelectors returns one class selector per item class
func (l Layout) ItemSelectors() []string {
	parts := make([]string, 0, len(l.ItemClasses))
	for _, c := range l.ItemClasses {
		if c == "" {
			continue
		}
		parts = append(parts, "."+c)
	}
	return parts
}

// itemSelector builds a selector group matching any of the item classes
func (l Layout) itemSelector() string {
	return strings.Join(l.ItemSelectors(), ", ")
}

func firstNonEmpty(item *goquery.Selection, strategies []Strategy) string {
	for _, s := range strategies {
		if v := s.Resolve(item); v != "" {
			return v
		}
	}
	return ""
}
