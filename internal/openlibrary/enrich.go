package openlibrary

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/errors"
)

// EnrichResult counts what an enrichment pass did.
type EnrichResult struct {
	Checked int
	Found   int
}

// Enrich fills in cover URLs for records that have none and carry a 13-digit ISBN.
// Updated records move from no_cover to pending. A rate limit stops the pass early and
// is returned together with the counts so far.
func (c *Client) Enrich(ctx context.Context, records []book.Record) (EnrichResult, error) {
	var result EnrichResult

	for i := range records {
		rec := &records[i]
		if rec.HasCover() || !isISBN13(rec.ISBN) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, errors.NewStopProcessingError(err.Error())
		}

		result.Checked++
		url, err := c.LookupCover(ctx, rec.ISBN)
		if err != nil {
			if errors.IsRateLimitError(err) {
				return result, err
			}
			slog.Warn("Open Library lookup failed", "isbn", rec.ISBN, "title", rec.Title, "error", err)
			continue
		}
		if url == "" {
			continue
		}

		rec.SetCoverURL(url)
		result.Found++
		slog.Info("Found cover on Open Library", "title", rec.Title, "isbn", rec.ISBN)
	}

	slog.Info("Open Library enrichment finished", "checked", result.Checked, "found", result.Found)
	return result, nil
}

func isISBN13(s string) bool {
	if len(s) != 13 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
