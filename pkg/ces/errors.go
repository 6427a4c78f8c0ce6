package ces

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNoSubstitution reports a shock against the sole supplier of the
	// target country: there is nobody left to redistribute share to and
	// the re-equilibration is undefined.
	ErrNoSubstitution = errors.New("no substitution possible")

	// ErrInvalidSigma reports an elasticity of substitution outside the
	// valid range (sigma must exceed 1).
	ErrInvalidSigma = errors.New("elasticity of substitution must be > 1")

	// ErrLengthMismatch reports share and price vectors of different lengths.
	ErrLengthMismatch = errors.New("shares and prices differ in length")
)

// SimulationError provides structured error information for simulator failures.
type SimulationError struct {
	Op          string
	CountryFrom string
	CountryTo   string
	Period      string
	Product     string
	Cause       error
}

// Error implements the error interface.
func (e *SimulationError) Error() string {
	if e.CountryFrom != "" || e.CountryTo != "" {
		return fmt.Sprintf("%s %s -> %s period=%s product=%s: %v",
			e.Op, e.CountryFrom, e.CountryTo, e.Period, e.Product, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SimulationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *SimulationError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
