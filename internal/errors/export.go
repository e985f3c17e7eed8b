package errors

import (
	"errors"
	"fmt"
)

// ExportError is returned when writing an output artifact (JSON, report, gallery) fails
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError wraps a write failure for path
func NewExportError(path string, err error) *ExportError {
	return &ExportError{Path: path, Err: err}
}

// IsExportError reports whether err is an ExportError (even when wrapped).
func IsExportError(err error) bool {
	var exportErr *ExportError
	return errors.As(err, &exportErr)
}
