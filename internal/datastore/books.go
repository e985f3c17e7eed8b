package datastore

// DatabaseName is the Datasette database the remote client writes to
const DatabaseName = "shelfcovers"

// BooksTable holds one row per borrowed book, keyed by its position in the history page
const BooksTable = "borrowed_books"

// BooksSchema creates BooksTable
const BooksSchema = `
CREATE TABLE IF NOT EXISTS borrowed_books (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT,
	isbn TEXT,
	date TEXT,
	cover_url TEXT,
	status TEXT,
	cover_file TEXT,
	source_file TEXT,
	updated_at TEXT
);
`
