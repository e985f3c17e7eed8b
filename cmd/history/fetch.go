package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/lepinkainen/shelfcovers/internal/automation"
	"github.com/lepinkainen/shelfcovers/internal/config"
	"github.com/lepinkainen/shelfcovers/internal/extract"
)

// FetchParams configures the fetch command
type FetchParams struct {
	URL      string
	Output   string
	Headless bool
	Timeout  time.Duration
}

// RunFetch saves the rendered borrowing-history page at params.URL and reports how many
// records it contains.
func RunFetch(ctx context.Context, params FetchParams) error {
	layout := extract.DefaultLayout().WithItemClasses(config.ItemClasses()...)

	if _, err := savePage(ctx, automation.SnapshotOptions{
		URL:       params.URL,
		Output:    params.Output,
		Selectors: layout.ItemSelectors(),
		Headless:  params.Headless,
		Timeout:   params.Timeout,
	}); err != nil {
		return err
	}

	records, err := ParseFile(params.Output)
	if stop, err := handleNoData(err); stop {
		return err
	}
	slog.Info("Saved borrowing history", "path", params.Output, "books", len(records))
	return nil
}
