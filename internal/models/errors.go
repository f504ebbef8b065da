// ABOUTME: Validation error shared by models, tracker, and transports.
// ABOUTME: Carries the offending field so callers can report it.
package models

import "fmt"

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
