// Package gallery renders a static HTML page of borrowed books with local cover thumbnails.
package gallery

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lepinkainen/shelfcovers/internal/book"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
)

const (
	defaultThumbWidth = 160
	thumbDirName      = "thumbs"
	timeLayout        = "2006-01-02 15:04:05"
)

//go:embed template.html
var htmlTemplate string

var pageTemplate = template.Must(template.New("gallery").Parse(htmlTemplate))

// Options controls where covers are read from and how thumbnails are sized
type Options struct {
	CoverDir   string
	ThumbWidth int
	Generated  time.Time
}

// Item is one book as shown on the page. Thumb and Cover are relative to the page.
type Item struct {
	ID     int
	Title  string
	Author string
	ISBN   string
	Date   string
	Status book.Status
	Thumb  string
	Cover  string
}

type pageData struct {
	Title      string
	Generated  string
	ThumbWidth int
	Stats      book.Statistics
	Local      int
	Items      []Item
}

// Write generates thumbnails next to path and writes the gallery page to path.
// Records whose cover is not on disk get a placeholder.
func Write(path string, records []book.Record, opts Options) error {
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = defaultThumbWidth
	}
	if opts.Generated.IsZero() {
		opts.Generated = time.Now()
	}

	pageDir := filepath.Dir(path)
	thumbDir := filepath.Join(pageDir, thumbDirName)
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return shelferrors.NewExportError(path, err)
	}

	items := make([]Item, 0, len(records))
	for _, rec := range records {
		items = append(items, buildItem(rec, pageDir, thumbDir, opts))
	}

	content, err := Render(records, items, opts)
	if err != nil {
		return shelferrors.NewExportError(path, err)
	}
	if _, err := fileutil.WriteFileWithOverwrite(path, content, 0644, true); err != nil {
		return shelferrors.NewExportError(path, err)
	}

	slog.Info("Gallery saved", "path", path, "books", len(items))
	return nil
}

// Render executes the page template for already resolved items
func Render(records []book.Record, items []Item, opts Options) ([]byte, error) {
	local := 0
	for _, it := range items {
		if it.Thumb != "" {
			local++
		}
	}

	data := pageData{
		Title:      "Borrowed Books",
		Generated:  opts.Generated.Format(timeLayout),
		ThumbWidth: opts.ThumbWidth,
		Stats:      book.Stats(records),
		Local:      local,
		Items:      items,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func buildItem(rec book.Record, pageDir, thumbDir string, opts Options) Item {
	item := Item{
		ID:     rec.ID,
		Title:  rec.Title,
		Author: rec.Author,
		ISBN:   rec.ISBN,
		Date:   rec.Date,
		Status: rec.Status,
	}

	name := fileutil.CoverFilename(rec.ISBN, rec.Title)
	coverPath := filepath.Join(opts.CoverDir, name)
	if !fileutil.FileExists(coverPath) {
		return item
	}
	item.Cover = relativeURL(pageDir, coverPath)

	thumbPath := filepath.Join(thumbDir, name)
	if err := makeThumbnail(coverPath, thumbPath, opts.ThumbWidth); err != nil {
		// not decodable as an image, link the original instead
		slog.Warn("Failed to create thumbnail", "cover", coverPath, "error", err)
		item.Thumb = item.Cover
		return item
	}
	item.Thumb = relativeURL(pageDir, thumbPath)
	return item
}

// makeThumbnail fits the cover into a width x 1.5*width box
func makeThumbnail(src, dst string, width int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	thumb := imaging.Fit(img, width, width*3/2, imaging.Lanczos)
	return imaging.Save(thumb, dst, imaging.JPEGQuality(85))
}

func relativeURL(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
