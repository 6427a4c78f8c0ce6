package graph

import (
	"errors"
	"fmt"
)

// ErrEmptySlice reports that the requested (period, product) view holds
// no edges. Both the centrality engine and the CES simulator surface it
// instead of returning degenerate zero rows.
var ErrEmptySlice = errors.New("no edges for requested slice")

// SliceError provides structured error information for index lookups.
type SliceError struct {
	Period  string
	Product string
	Cause   error
}

// Error implements the error interface.
func (e *SliceError) Error() string {
	if e.Product != "" {
		return fmt.Sprintf("slice period=%s product=%s: %v", e.Period, e.Product, e.Cause)
	}
	return fmt.Sprintf("slice period=%s: %v", e.Period, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SliceError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *SliceError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func emptySliceError(period, product string) error {
	return &SliceError{Period: period, Product: product, Cause: ErrEmptySlice}
}
