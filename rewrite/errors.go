package rewrite

import (
	"fmt"
	"strings"
)

// EmptyValueError is returned when a required literal is empty.
type EmptyValueError struct {
	Field string
}

// NewEmptyValueError creates a new EmptyValueError.
func NewEmptyValueError(field string) *EmptyValueError {
	return &EmptyValueError{Field: field}
}

func (e *EmptyValueError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// IdenticalValuesError is returned when the old and new literals are the same string, which
// would make every run rewrite files without changing them.
type IdenticalValuesError struct {
	Value string
}

// NewIdenticalValuesError creates a new IdenticalValuesError.
func NewIdenticalValuesError(value string) *IdenticalValuesError {
	return &IdenticalValuesError{Value: value}
}

func (e *IdenticalValuesError) Error() string {
	return fmt.Sprintf("old and new values are identical (%s)", e.Value)
}

// InvalidLineError is returned when a replacement line would split into several lines.
type InvalidLineError struct {
	Line string
}

// NewInvalidLineError creates a new InvalidLineError.
func NewInvalidLineError(line string) *InvalidLineError {
	return &InvalidLineError{Line: line}
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("replacement line %q contains a line break", e.Line)
}

func validatePair(oldValue, newValue string) error {
	if oldValue == "" {
		return NewEmptyValueError("old value")
	}
	if oldValue == newValue {
		return NewIdenticalValuesError(oldValue)
	}

	return nil
}

func validateLine(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return NewInvalidLineError(line)
	}

	return nil
}
