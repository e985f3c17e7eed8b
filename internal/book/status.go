package book

// Status represents where a record is in the cover download lifecycle
type Status string

const (
	// StatusPending means the record has a cover URL that has not been fetched yet
	StatusPending Status = "pending"

	// StatusDownloaded means the cover exists on disk, either fetched now or earlier
	StatusDownloaded Status = "downloaded"

	// StatusFailed means the last download attempt did not produce a usable file
	StatusFailed Status = "failed"

	// StatusNoCover means the record has no cover URL at all
	StatusNoCover Status = "no_cover"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsFinal returns true if no further download attempt is expected in this run
func (s Status) IsFinal() bool {
	return s == StatusDownloaded || s == StatusNoCover
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDownloaded, StatusFailed, StatusNoCover:
		return true
	}
	return false
}
