package errors

import "fmt"

// ValidationError represents a validation error with detailed context
type ValidationError struct {
	*BaseError
	Field      string      // field that failed validation
	Value      interface{} // the value that failed validation
	Constraint string      // the validation constraint that failed
}

// NewValidationError creates a validation error for a field and the constraint it broke
func NewValidationError(field string, value interface{}, constraint string) *ValidationError {
	message := fmt.Sprintf("validation failed for field '%s': %s", field, constraint)

	return &ValidationError{
		BaseError:  New(ValidationErrorCode, message).WithContext("field", field),
		Field:      field,
		Value:      value,
		Constraint: constraint,
	}
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}
