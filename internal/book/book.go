// Package book holds the borrowing-history record shared by the extractor and downloader.
package book

// UnknownAuthor is used when no author could be resolved for a record
const UnknownAuthor = "unknown"

// Record is a single borrowed book found in a borrowing-history page
type Record struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Date     string `json:"date"`
	CoverURL string `json:"coverUrl,omitempty"`
	Status   Status `json:"status"`
}

// NewRecord creates a record with its initial status derived from the cover URL
func NewRecord(id int, title, author, isbn, date, coverURL string) Record {
	if author == "" {
		author = UnknownAuthor
	}

	status := StatusPending
	if coverURL == "" {
		status = StatusNoCover
	}

	return Record{
		ID:       id,
		Title:    title,
		Author:   author,
		ISBN:     isbn,
		Date:     date,
		CoverURL: coverURL,
		Status:   status,
	}
}

// HasCover reports whether the record points at a cover image
func (r *Record) HasCover() bool {
	return r.CoverURL != ""
}

// SetCoverURL assigns a cover URL found after extraction and resets the status accordingly
func (r *Record) SetCoverURL(url string) {
	r.CoverURL = url
	if url == "" {
		r.Status = StatusNoCover
		return
	}
	if r.Status == StatusNoCover {
		r.Status = StatusPending
	}
}

// WithCovers returns pointers to the records that have a cover URL, preserving order.
// The pointers alias the input slice so status updates are visible to the caller.
func WithCovers(records []Record) []*Record {
	result := make([]*Record, 0, len(records))
	for i := range records {
		if records[i].HasCover() {
			result = append(result, &records[i])
		}
	}
	return result
}

// Statistics summarises a record list
type Statistics struct {
	Total      int
	WithCover  int
	Downloaded int
	Failed     int
}

// Stats counts records by cover presence and status
func Stats(records []Record) Statistics {
	var s Statistics
	s.Total = len(records)
	for _, r := range records {
		if r.HasCover() {
			s.WithCover++
		}
		switch r.Status {
		case StatusDownloaded:
			s.Downloaded++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
