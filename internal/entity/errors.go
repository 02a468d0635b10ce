package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateOrder    = errors.New("idempotent key already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError names the request field that is missing or malformed.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

// RangeError reports a value outside its allowed bounds.
type RangeError struct {
	Field string
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g", e.Field, e.Min, e.Max)
}
