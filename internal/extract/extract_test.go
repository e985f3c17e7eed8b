package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/shelfcovers/internal/book"
)

const cardPage = `<html><body>
<div class="cp-borrowing-history-item">
  <span class="title-content">The Hobbit</span>
  <span class="author">J.R.R. Tolkien</span>
  <span class="isbn">9780547928227</span>
  <span class="date">2024-01-05</span>
  <img src="https://img.example.com/small/hobbit.jpg" data-large="https://img.example.com/large/hobbit.jpg">
</div>
<div class="cp-borrowing-history-item">
  <span class="author">Nobody</span>
</div>
<div class="recently-returned-item">
  <a href="/item/3" title="Dune">Dune</a>
  <span itemprop="author">Frank Herbert</span>
  <p>Published as ISBN 9780441172719 in paperback</p>
</div>
</body></html>`

func TestExtractSkipsUntitledAndKeepsCandidateIDs(t *testing.T) {
	records := Extract(cardPage)

	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 3, records[1].ID)
	for _, r := range records {
		assert.NotEmpty(t, r.Title)
	}
}

func TestExtractCardFields(t *testing.T) {
	records := Extract(cardPage)
	require.Len(t, records, 2)

	hobbit := records[0]
	assert.Equal(t, "The Hobbit", hobbit.Title)
	assert.Equal(t, "J.R.R. Tolkien", hobbit.Author)
	assert.Equal(t, "9780547928227", hobbit.ISBN)
	assert.Equal(t, "2024-01-05", hobbit.Date)
	assert.Equal(t, "https://img.example.com/large/hobbit.jpg", hobbit.CoverURL)
	assert.Equal(t, book.StatusPending, hobbit.Status)

	dune := records[1]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Frank Herbert", dune.Author)
	assert.Equal(t, "9780441172719", dune.ISBN, "ISBN found by scanning the raw markup")
	assert.Equal(t, "", dune.Date)
	assert.Equal(t, "", dune.CoverURL)
	assert.Equal(t, book.StatusNoCover, dune.Status)
}

func TestExtractCoverPrecedence(t *testing.T) {
	testCases := []struct {
		name     string
		img      string
		expected string
	}{
		{
			name:     "large beats src",
			img:      `<img src="a.jpg" data-large="b.jpg">`,
			expected: "b.jpg",
		},
		{
			name:     "deferred source beats large",
			img:      `<img src="a.jpg" data-large="b.jpg" data-src="c.jpg">`,
			expected: "c.jpg",
		},
		{
			name:     "src only",
			img:      `<img src="a.jpg">`,
			expected: "a.jpg",
		},
		{
			name:     "no image",
			img:      ``,
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := `<div class="cp-borrowing-history-item"><span class="title-content">T</span>` + tc.img + `</div>`
			records := Extract(page)
			require.Len(t, records, 1)
			assert.Equal(t, tc.expected, records[0].CoverURL)
		})
	}
}

func TestExtractUsesFirstImageOnly(t *testing.T) {
	page := `<div class="cp-borrowing-history-item">
		<span class="title-content">T</span>
		<img src="first.jpg">
		<img src="second.jpg" data-large="second-large.jpg">
	</div>`

	records := Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, "first.jpg", records[0].CoverURL)
}

func TestExtractISBNPrecedence(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "explicit element wins over markup",
			body:     `<span class="isbn">1234</span><p>9781111111111</p>`,
			expected: "1234",
		},
		{
			name:     "979 prefix in surrounding text",
			body:     `<p>ref:9791234567896, hardcover</p>`,
			expected: "9791234567896",
		},
		{
			name:     "isbn inside an attribute",
			body:     `<a href="/isbn/9780000000002">x</a>`,
			expected: "9780000000002",
		},
		{
			name:     "longer digit run is not an ISBN",
			body:     `<p>97812345678901234</p>`,
			expected: "001",
		},
		{
			name:     "other prefix is not an ISBN",
			body:     `<p>1234567890123</p>`,
			expected: "001",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := `<div class="cp-borrowing-history-item"><span class="title-content">T</span>` + tc.body + `</div>`
			records := Extract(page)
			require.Len(t, records, 1)
			assert.Equal(t, tc.expected, records[0].ISBN)
		})
	}
}

func TestExtractPositionalISBNUsesCandidateIndex(t *testing.T) {
	page := `
	<div class="cp-borrowing-history-item"></div>
	<div class="cp-borrowing-history-item"></div>
	<div class="cp-borrowing-history-item"><span class="title-content">Third</span></div>`

	records := Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].ID)
	assert.Equal(t, "003", records[0].ISBN)
}

func TestExtractDefaultsAuthor(t *testing.T) {
	records := Extract(`<div class="cp-borrowing-history-item"><span class="title-content">T</span></div>`)
	require.Len(t, records, 1)
	assert.Equal(t, book.UnknownAuthor, records[0].Author)
}

func TestExtractTableFallback(t *testing.T) {
	page := `<table>
	<tr><th>Title</th><th>Date</th></tr>
	<tr>
	  <td><a title="Neuromancer" href="#">Neuromancer</a></td>
	  <td class="cp-borrowing-history-date">2023-11-02</td>
	  <td><img src="n.jpg"></td>
	</tr>
	</table>`

	records := Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].ID, "header row consumes index 0")
	assert.Equal(t, "Neuromancer", records[0].Title)
	assert.Equal(t, "2023-11-02", records[0].Date)
	assert.Equal(t, "n.jpg", records[0].CoverURL)
	assert.Equal(t, "002", records[0].ISBN)
}

func TestExtractPrefersItemClassesOverRows(t *testing.T) {
	page := `<table><tr><td><a title="Row Book">r</a></td></tr></table>
	<div class="cp-borrowing-history-list-item"><span class="title-content">Card Book</span></div>`

	records := Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, "Card Book", records[0].Title)
}

func TestExtractStrippedText(t *testing.T) {
	page := `<div class="cp-borrowing-history-item">
	<h2 class="title-content">
		<span>  Foo </span>
		<span>Bar  </span>
	</h2>
	</div>`

	records := Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, "FooBar", records[0].Title)
}

func TestExtractEmptyTitleFallsThrough(t *testing.T) {
	page := `<div class="cp-borrowing-history-item">
	<span class="title-content">   </span>
	<a title="From Link">x</a>
	</div>`

	records := Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, "From Link", records[0].Title)
}

func TestExtractEmptyAndMalformedInput(t *testing.T) {
	testCases := []struct {
		name string
		html string
	}{
		{name: "empty", html: ""},
		{name: "plain text", html: "no markup here"},
		{name: "attribute free", html: "<div><p>hello</p></div>"},
		{name: "unclosed tags", html: `<div class="cp-borrowing-history-item"><span class="author">x<img`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := Extract(tc.html)
			assert.NotNil(t, records)
			assert.Empty(t, records)
		})
	}
}

func TestExtractorWithExtraItemClasses(t *testing.T) {
	page := `<li class="loan-card"><span class="title-content">Custom</span></li>`

	assert.Empty(t, Extract(page))

	ex := New(DefaultLayout().WithItemClasses("loan-card", " "))
	records := ex.Extract(page)
	require.Len(t, records, 1)
	assert.Equal(t, "Custom", records[0].Title)
}

func TestLayoutItemSelectors(t *testing.T) {
	l := DefaultLayout().WithItemClasses("loan-card")

	assert.Equal(t, []string{
		".cp-borrowing-history-item",
		".recently-returned-item",
		".cp-borrowing-history-list-item",
		".loan-card",
	}, l.ItemSelectors())
	assert.Equal(t, ".cp-borrowing-history-item, .recently-returned-item, .cp-borrowing-history-list-item, .loan-card", l.itemSelector())
}
