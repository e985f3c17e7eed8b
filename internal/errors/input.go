package errors

import (
	"errors"
	"fmt"
)

// ParseInputError is returned when the borrowing-history file cannot be read
type ParseInputError struct {
	Path string
	Err  error
}

func (e *ParseInputError) Error() string {
	return fmt.Sprintf("failed to read input %s: %v", e.Path, e.Err)
}

func (e *ParseInputError) Unwrap() error {
	return e.Err
}

// NewParseInputError wraps a read failure for path
func NewParseInputError(path string, err error) *ParseInputError {
	return &ParseInputError{Path: path, Err: err}
}

// IsParseInputError reports whether err is a ParseInputError (even when wrapped).
func IsParseInputError(err error) bool {
	var inputErr *ParseInputError
	return errors.As(err, &inputErr)
}

// NoDataFoundError means the input parsed but contained no book records.
// It is a warning condition, not a failure.
type NoDataFoundError struct {
	Path string
}

func (e *NoDataFoundError) Error() string {
	if e.Path == "" {
		return "no book records found"
	}
	return fmt.Sprintf("no book records found in %s", e.Path)
}

// NewNoDataFoundError creates a NoDataFoundError for path
func NewNoDataFoundError(path string) *NoDataFoundError {
	return &NoDataFoundError{Path: path}
}

// IsNoDataFoundError reports whether err is a NoDataFoundError (even when wrapped).
func IsNoDataFoundError(err error) bool {
	var noData *NoDataFoundError
	return errors.As(err, &noData)
}
