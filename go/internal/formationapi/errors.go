package formationapi

import (
	"errors"
	"fmt"
)

// ErrFormationNotFound is returned when a team has no stored formation
var ErrFormationNotFound = errors.New("formation not found")

// ValidationError wraps a rejected formation document
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid formation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
