package history

import (
	"context"
	"io"
	"log/slog"

	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/cmdutil"
	"github.com/lepinkainen/shelfcovers/internal/config"
	"github.com/lepinkainen/shelfcovers/internal/downloader"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/report"
)

// DownloadParams configures the download command
type DownloadParams struct {
	Input            string
	FromJSON         string
	Dir              string
	TUI              bool
	NoPauseAfterSkip bool
	OpenLibrary      bool
	WriteJSON        bool
	JSONOutput       string
}

// RunDownload loads the records, downloads every cover into the cover directory and
// writes the report. A batch stopped by the user still gets a report.
func RunDownload(ctx context.Context, params DownloadParams) error {
	records, err := LoadRecords(params.Input, params.FromJSON)
	if stop, err := handleNoData(err); stop {
		return err
	}

	if params.OpenLibrary || config.OpenLibraryEnabled() {
		enrichFromOpenLibrary(ctx, records)
	}

	cfg := cmdutil.BaseCommandConfig{
		CoverDir:   params.Dir,
		WriteJSON:  params.WriteJSON,
		JSONOutput: params.JSONOutput,
	}
	if err := cmdutil.SetupOutputDir(&cfg); err != nil {
		return shelferrors.NewBatchFatalError(err)
	}

	settings := config.Download()
	if params.NoPauseAfterSkip {
		settings.PauseAfterSkip = false
	}

	result, err := runBatch(ctx, downloader.New(settings), records, cfg.CoverDir, params.TUI)
	if err != nil {
		if !shelferrors.IsStopProcessingError(err) {
			return err
		}
		slog.Warn("Download stopped", "reason", err)
	}

	logPreviousReport(cfg.ReportPath)

	summary := report.NewSummary(records, result, now())
	if err := report.Write(cfg.ReportPath, summary, records); err != nil {
		return err
	}

	if cfg.WriteJSON {
		if err := writeJSON(records, cfg.JSONOutput); err != nil {
			return err
		}
	}

	source := params.Input
	if params.FromJSON != "" {
		source = params.FromJSON
	}
	if err := writeBooksToDatastore(records, cfg.CoverDir, source); err != nil {
		slog.Error("Failed to write datastore", "error", err)
	}

	return nil
}

// logPreviousReport records the counts of the report about to be replaced
func logPreviousReport(path string) {
	prev, err := report.ReadSummary(path)
	if err != nil {
		return
	}
	slog.Info("Replacing previous report",
		"generated", prev.Generated,
		"downloaded", prev.Downloaded,
		"failed", prev.Failed)
}

func runBatch(parent context.Context, d *downloader.Downloader, records []book.Record, dir string, useTUI bool) (downloader.Result, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	targets := book.WithCovers(records)
	job := downloader.NewJob(d)

	var restoreLogs func()
	if useTUI {
		restoreLogs = silenceLogs()
	}

	events, err := job.Start(ctx, targets, dir)
	if err != nil {
		if restoreLogs != nil {
			restoreLogs()
		}
		return downloader.Result{}, err
	}

	if useTUI {
		progress, tuiErr := runProgress(events, len(targets), cancel)
		restoreLogs()
		if tuiErr != nil {
			slog.Warn("Progress view failed, continuing without it", "error", tuiErr)
		}
		if progress.Stopped {
			slog.Info("Stopping after the current cover")
		}
	}

	// the channel is buffered, draining only waits for the batch to end
	for range events {
	}

	return job.Wait()
}

// silenceLogs keeps log lines from tearing through the progress view
func silenceLogs() func() {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return func() { slog.SetDefault(prev) }
}
