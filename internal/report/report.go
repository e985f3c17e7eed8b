// Package report renders the markdown summary written after a download batch.
package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/downloader"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
	"github.com/lepinkainen/shelfcovers/internal/frontmatter"
)

const timeLayout = "2006-01-02 15:04:05"

// Summary is the frontmatter of a download report
type Summary struct {
	Total       int     `yaml:"total"`
	WithCover   int     `yaml:"with_cover"`
	Downloaded  int     `yaml:"downloaded"`
	Failed      int     `yaml:"failed"`
	SuccessRate float64 `yaml:"success_rate"`
	Directory   string  `yaml:"directory"`
	Generated   string  `yaml:"generated"`
}

// NewSummary combines the record list with the result of a download pass.
// WithCover counts the records that were attempted, as the result reports them.
func NewSummary(records []book.Record, result downloader.Result, now time.Time) Summary {
	return Summary{
		Total:       len(records),
		WithCover:   result.Attempted(),
		Downloaded:  result.Downloaded,
		Failed:      result.Failed,
		SuccessRate: math.Round(result.SuccessRate()*10) / 10,
		Directory:   result.Dir,
		Generated:   now.Format(timeLayout),
	}
}

// Build renders the report as markdown with YAML frontmatter.
// Records that failed are listed so they can be retried by hand.
func Build(s Summary, records []book.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Cover Download Report\n\n")
	buf.WriteString("## Statistics\n\n")
	fmt.Fprintf(&buf, "- Total books: %d\n", s.Total)
	fmt.Fprintf(&buf, "- With cover image: %d\n", s.WithCover)
	fmt.Fprintf(&buf, "- Downloaded: %d (%.1f%%)\n", s.Downloaded, s.SuccessRate)
	fmt.Fprintf(&buf, "- Failed: %d\n", s.Failed)
	fmt.Fprintf(&buf, "- Directory: %s\n", s.Directory)

	var failed []book.Record
	for _, r := range records {
		if r.Status == book.StatusFailed {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		buf.WriteString("\n## Failed\n\n")
		for _, r := range failed {
			fmt.Fprintf(&buf, "- %s (%s): %s\n", r.Title, r.ISBN, r.CoverURL)
		}
	}

	fmt.Fprintf(&buf, "\n---\nGenerated: %s\n", s.Generated)

	return frontmatter.Encode(s, buf.String())
}

// ReadSummary loads the frontmatter of a previously written report.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	content, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if _, err := frontmatter.Decode(content, &s); err != nil {
		return s, fmt.Errorf("report %s: %w", path, err)
	}
	return s, nil
}

// Write renders the report and writes it to path, replacing any previous report
func Write(path string, s Summary, records []book.Record) error {
	content, err := Build(s, records)
	if err != nil {
		return shelferrors.NewExportError(path, err)
	}
	if _, err := fileutil.WriteFileWithOverwrite(path, content, 0644, true); err != nil {
		return shelferrors.NewExportError(path, err)
	}
	slog.Info("Report saved", "path", path)
	return nil
}
