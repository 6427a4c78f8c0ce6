package dataset

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrMissingColumn   = errors.New("required column missing")
	ErrDuplicateEdge   = errors.New("duplicate edge")
	ErrNonNumericValue = errors.New("non-numeric value")
	ErrEmptyFile       = errors.New("file contains no records")
	ErrBadEncoding     = errors.New("unsupported encoding")
)

// LoadError provides structured error information for loader failures.
type LoadError struct {
	Op      string // operation that failed (e.g. "ReadHeader", "ParseRow")
	Path    string // file being loaded
	Row     int    // 1-based data row number, 0 if not row-specific
	Column  string // column name, empty if not column-specific
	Cause   error  // underlying error
	Context string // additional context
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.Row != 0 && e.Column != "":
		return fmt.Sprintf("%s %s row %d column %q: %v", e.Op, e.Path, e.Row, e.Column, e.Cause)
	case e.Row != 0:
		return fmt.Sprintf("%s %s row %d: %v", e.Op, e.Path, e.Row, e.Cause)
	case e.Column != "":
		return fmt.Sprintf("%s %s column %q: %v", e.Op, e.Path, e.Column, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Path, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *LoadError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func missingColumnError(path, column string) error {
	return &LoadError{Op: "ReadHeader", Path: path, Column: column, Cause: ErrMissingColumn}
}

func rowError(op, path string, row int, column string, cause error) error {
	return &LoadError{Op: op, Path: path, Row: row, Column: column, Cause: cause}
}
