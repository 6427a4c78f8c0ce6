package config

import (
	"errors"
	"fmt"
)

// ConfigValidator provides a fluent interface for validating
// configuration values. It collects all validation errors rather than
// failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: required field is empty", cv.name, field))
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed ...string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %q is not one of %v", cv.name, field, value, allowed))
	return cv
}

// GreaterThan validates that a float field exceeds a bound.
func (cv *ConfigValidator) GreaterThan(field string, value, bound float64) *ConfigValidator {
	if value <= bound {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be greater than %v", cv.name, field, value, bound))
	}
	return cv
}

// Distinct validates that two string fields carry different values.
func (cv *ConfigValidator) Distinct(fieldA, fieldB, valueA, valueB string) *ConfigValidator {
	if valueA == valueB {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s and %s.%s must differ, both are %q", cv.name, fieldA, cv.name, fieldB, valueA))
	}
	return cv
}

// Err returns all collected validation errors joined, or nil.
func (cv *ConfigValidator) Err() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}
