package network

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrInvalidMode reports a harmonization mode outside the three
	// recognized values. Raised before any row is processed.
	ErrInvalidMode = errors.New("invalid harmonization mode")

	// ErrUnrecognizedFlowLabel reports a flow label outside the
	// configured import/export pair. Raised before any edge is emitted.
	ErrUnrecognizedFlowLabel = errors.New("unrecognized flow label")

	// ErrNoEdges reports that harmonization produced an empty edge set.
	ErrNoEdges = errors.New("no edges after harmonization")
)

// BuildError provides structured error information for builder failures.
type BuildError struct {
	Op      string // operation that failed (e.g. "NewBuilder", "Build")
	Row     int    // 1-based record index, 0 if not row-specific
	Context string // additional context (offending label, mode string)
	Cause   error  // underlying error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Row != 0 {
		return fmt.Sprintf("%s record %d (%s): %v", e.Op, e.Row, e.Context, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *BuildError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func invalidModeError(mode string) error {
	return &BuildError{Op: "NewBuilder", Context: fmt.Sprintf("mode %q", mode), Cause: ErrInvalidMode}
}

func flowLabelError(row int, label string) error {
	return &BuildError{Op: "Build", Row: row, Context: fmt.Sprintf("flow %q", label), Cause: ErrUnrecognizedFlowLabel}
}
