package history

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/shelfcovers/internal/book"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/openlibrary"
)

type coverEnricher interface {
	Enrich(ctx context.Context, records []book.Record) (openlibrary.EnrichResult, error)
}

// enrichFromOpenLibrary fills missing cover URLs. Lookup problems never stop the run.
func enrichFromOpenLibrary(ctx context.Context, records []book.Record) {
	result, err := newOpenLibraryClient().Enrich(ctx, records)
	switch {
	case shelferrors.IsRateLimitError(err):
		slog.Warn("Open Library rate limited, continuing with the covers found so far", "found", result.Found, "error", err)
	case err != nil:
		slog.Warn("Open Library lookup stopped", "error", err)
	}
}
