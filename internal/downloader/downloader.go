// Package downloader fetches book covers one at a time and records each outcome on the book.
package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/config"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
)

// Outcome describes what happened to a single record
type Outcome string

const (
	OutcomeDownloaded Outcome = "downloaded"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeFailed     Outcome = "failed"
)

// Event is emitted once per processed record
type Event struct {
	Index    int // 0-based position among the records with a cover
	Total    int
	Record   book.Record
	Outcome  Outcome
	Filename string
	Bytes    int
	Err      error
}

// Result holds the counts of one download pass
type Result struct {
	Downloaded int
	Failed     int
	Dir        string
}

// Attempted is the number of records that ended downloaded or failed
func (r Result) Attempted() int {
	return r.Downloaded + r.Failed
}

// SuccessRate returns the downloaded share of attempted records as a percentage
func (r Result) SuccessRate() float64 {
	if r.Attempted() == 0 {
		return 0
	}
	return float64(r.Downloaded) / float64(r.Attempted()) * 100
}

// sleep waits between requests; tests replace it
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type fetchFunc func(ctx context.Context, opts fileutil.CoverFetchOptions) (int, error)

// Downloader fetches cover images sequentially
type Downloader struct {
	Client         *http.Client
	UserAgent      string
	MinBytes       int
	Pause          time.Duration
	PauseAfterSkip bool

	// OnEvent is called synchronously after each record
	OnEvent func(Event)

	fetch fetchFunc
}

// New creates a Downloader from settings
func New(settings config.DownloadSettings) *Downloader {
	return &Downloader{
		Client:         fileutil.NewCoverClient(settings.Timeout),
		UserAgent:      settings.UserAgent,
		MinBytes:       settings.MinBytes,
		Pause:          settings.Pause,
		PauseAfterSkip: settings.PauseAfterSkip,
		fetch:          fileutil.FetchCover,
	}
}

// DownloadAll downloads the cover of every record that has one into dir.
// Each record's Status is updated in place. Per-record failures are counted,
// never returned; the error is reserved for conditions that stop the whole batch.
func (d *Downloader) DownloadAll(ctx context.Context, records []*book.Record, dir string) (Result, error) {
	result := Result{Dir: dir}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return result, shelferrors.NewBatchFatalError(fmt.Errorf("failed to create cover directory %s: %w", dir, err))
	}

	targets := make([]*book.Record, 0, len(records))
	for _, r := range records {
		if r != nil && r.HasCover() {
			targets = append(targets, r)
		}
	}

	slog.Info("Starting cover download", "count", len(targets), "dir", dir)

	for i, rec := range targets {
		if ctx.Err() != nil {
			return result, shelferrors.NewStopProcessingError(fmt.Sprintf("download cancelled after %d of %d covers", i, len(targets)))
		}

		filename := fileutil.CoverFilename(rec.ISBN, rec.Title)
		path := filepath.Join(dir, filename)
		event := Event{Index: i, Total: len(targets), Filename: filename}

		if fileutil.FileExists(path) {
			slog.Info("Cover already exists, skipping", "title", rec.Title, "file", filename)
			rec.Status = book.StatusDownloaded
			result.Downloaded++

			event.Outcome = OutcomeSkipped
			d.emit(event, rec)

			if d.PauseAfterSkip {
				_ = sleep(ctx, d.Pause)
			}
			continue
		}

		n, err := d.fetcher()(ctx, fileutil.CoverFetchOptions{
			URL:       rec.CoverURL,
			Path:      path,
			Client:    d.Client,
			UserAgent: d.UserAgent,
			MinBytes:  d.MinBytes,
		})
		if err != nil {
			slog.Warn("Cover download failed", "title", rec.Title, "url", rec.CoverURL, "error", err)
			rec.Status = book.StatusFailed
			result.Failed++

			event.Outcome = OutcomeFailed
			event.Err = err
		} else {
			slog.Info("Downloaded cover", "title", rec.Title, "file", filename, "bytes", n)
			rec.Status = book.StatusDownloaded
			result.Downloaded++

			event.Outcome = OutcomeDownloaded
			event.Bytes = n
		}
		d.emit(event, rec)

		_ = sleep(ctx, d.Pause)
	}

	slog.Info("Cover download finished",
		"downloaded", result.Downloaded,
		"failed", result.Failed,
		"success_rate", fmt.Sprintf("%.1f%%", result.SuccessRate()))

	return result, nil
}

func (d *Downloader) fetcher() fetchFunc {
	if d.fetch != nil {
		return d.fetch
	}
	return fileutil.FetchCover
}

func (d *Downloader) emit(event Event, rec *book.Record) {
	if d.OnEvent == nil {
		return
	}
	event.Record = *rec
	d.OnEvent(event)
}
