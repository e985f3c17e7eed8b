// Package history implements the borrowing-history commands: extracting records from a
// saved page, downloading their covers and writing the exports built on top of them.
package history

import (
	"log/slog"
	"time"

	"github.com/lepinkainen/shelfcovers/internal/automation"
	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/config"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/extract"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
	"github.com/lepinkainen/shelfcovers/internal/openlibrary"
	"github.com/lepinkainen/shelfcovers/internal/tui"
)

// external effects, replaced in tests
var (
	now                  = time.Now
	readInput            = fileutil.ReadTextFile
	savePage             = automation.SavePage
	runProgress          = tui.RunProgress
	newOpenLibraryClient = func() coverEnricher { return openlibrary.NewClient() }
)

// ParseFile reads a saved borrowing-history page and extracts its records.
// A page without records returns the empty slice together with a NoDataFoundError.
func ParseFile(path string) ([]book.Record, error) {
	content, err := readInput(path)
	if err != nil {
		return nil, shelferrors.NewParseInputError(path, err)
	}

	layout := extract.DefaultLayout().WithItemClasses(config.ItemClasses()...)
	records := extract.New(layout).Extract(content)
	if len(records) == 0 {
		return records, shelferrors.NewNoDataFoundError(path)
	}

	logStats(path, records)
	return records, nil
}

// LoadRecords returns records from a JSON export when fromJSON is set, else from the
// HTML page at input.
func LoadRecords(input, fromJSON string) ([]book.Record, error) {
	if fromJSON == "" {
		return ParseFile(input)
	}

	var records []book.Record
	if err := fileutil.ReadJSONFile(fromJSON, &records); err != nil {
		return nil, shelferrors.NewParseInputError(fromJSON, err)
	}
	if len(records) == 0 {
		return []book.Record{}, shelferrors.NewNoDataFoundError(fromJSON)
	}

	logStats(fromJSON, records)
	return records, nil
}

func logStats(source string, records []book.Record) {
	stats := book.Stats(records)
	slog.Info("Loaded book records",
		"source", source,
		"total", stats.Total,
		"with_cover", stats.WithCover,
		"downloaded", stats.Downloaded,
		"failed", stats.Failed)
}

// handleNoData turns an empty input into a warning so the command still succeeds
func handleNoData(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if shelferrors.IsNoDataFoundError(err) {
		slog.Warn("Nothing to do", "reason", err)
		return true, nil
	}
	return true, err
}
