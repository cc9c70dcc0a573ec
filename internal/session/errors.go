package session

import "fmt"

// ValidationError reports a malformed user-supplied value (bad index, bad
// range, empty required field). It is recovered locally by re-asking or
// rejecting the single request and never corrupts the context.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid creates a ValidationError for the given field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
