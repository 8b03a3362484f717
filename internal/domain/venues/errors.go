package venues

import "fmt"

// ValidationError rejects a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("venues: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Invalid builds a ValidationError for callers outside the package.
func Invalid(field, reason string) error {
	return invalid(field, reason)
}
