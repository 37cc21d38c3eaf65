package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidSource indicates a source record failed validation.
	ErrInvalidSource = errors.New("invalid source")

	// ErrDuplicateSourceID indicates two registry entries share an id.
	ErrDuplicateSourceID = errors.New("duplicate source id")
)

// ValidationError reports which source field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap makes ValidationError match ErrInvalidSource via errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidSource
}
