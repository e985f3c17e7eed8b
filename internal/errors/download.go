package errors

import (
	"errors"
	"fmt"
)

// DownloadErrorKind classifies why a single cover download failed
type DownloadErrorKind string

const (
	KindTransport  DownloadErrorKind = "transport"
	KindTimeout    DownloadErrorKind = "timeout"
	KindStatus     DownloadErrorKind = "status"
	KindUndersized DownloadErrorKind = "undersized"
	KindWrite      DownloadErrorKind = "write"
)

// DownloadError is a per-item failure. It marks the record failed and never stops the batch.
type DownloadError struct {
	Kind DownloadErrorKind
	URL  string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s error downloading %s: %v", e.Kind, e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError creates a DownloadError of the given kind
func NewDownloadError(kind DownloadErrorKind, url string, err error) *DownloadError {
	return &DownloadError{Kind: kind, URL: url, Err: err}
}

// IsDownloadError reports whether err is a DownloadError (even when wrapped).
func IsDownloadError(err error) bool {
	var dlErr *DownloadError
	return errors.As(err, &dlErr)
}

// DownloadErrorKindOf returns the kind of a wrapped DownloadError, or "" when err is not one
func DownloadErrorKindOf(err error) DownloadErrorKind {
	var dlErr *DownloadError
	if errors.As(err, &dlErr) {
		return dlErr.Kind
	}
	return ""
}

// BatchFatalError aborts a whole download batch, e.g. when the destination
// directory cannot be created. Records already processed keep their status.
type BatchFatalError struct {
	Err error
}

func (e *BatchFatalError) Error() string {
	return fmt.Sprintf("download batch aborted: %v", e.Err)
}

func (e *BatchFatalError) Unwrap() error {
	return e.Err
}

// NewBatchFatalError wraps err as a batch-level failure
func NewBatchFatalError(err error) *BatchFatalError {
	return &BatchFatalError{Err: err}
}

// IsBatchFatalError reports whether err is a BatchFatalError (even when wrapped).
func IsBatchFatalError(err error) bool {
	var fatal *BatchFatalError
	return errors.As(err, &fatal)
}
