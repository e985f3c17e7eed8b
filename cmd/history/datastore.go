package history

import (
	"path/filepath"
	"time"

	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/cmdutil"
	"github.com/lepinkainen/shelfcovers/internal/datastore"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
)

// bookRow is one borrowed_books row
type bookRow struct {
	book.Record
	CoverFile  string
	SourceFile string
	UpdatedAt  string
}

func newBookRow(r book.Record, coverDir, source string, at time.Time) bookRow {
	row := bookRow{
		Record:     r,
		SourceFile: source,
		UpdatedAt:  at.Format(time.RFC3339),
	}
	if r.HasCover() {
		row.CoverFile = filepath.Join(coverDir, fileutil.CoverFilename(r.ISBN, r.Title))
	}
	return row
}

func bookRowToMap(row bookRow) map[string]any {
	m := cmdutil.StructToMap(row, cmdutil.StructToMapOptions{})
	m["status"] = row.Status.String()
	return m
}

func writeBooksToDatastore(records []book.Record, coverDir, source string) error {
	at := now()
	rows := make([]bookRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, newBookRow(r, coverDir, source, at))
	}
	return cmdutil.WriteToDatastore(rows, datastore.BooksSchema, datastore.BooksTable, "borrowed books", bookRowToMap)
}
