package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an identifier has no corresponding record.
// Callers must be able to tell this apart from any other storage failure.
var ErrNotFound = errors.New("record not found")

// ValidationError reports which field violated which constraint, whether the
// violation was caught during field shaping or by the database itself.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Constraint
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Constraint)
}
