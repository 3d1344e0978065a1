package formation

import "errors"

var (
	// ErrAssignmentNotFound is returned when a mutation references an id that is
	// neither a starter nor a bench entry. The Engine logs it and carries on.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrUnknownPosition is returned when a target position is not part of the active preset
	ErrUnknownPosition = errors.New("unknown position")

	// ErrInvalidBenchIndex is returned for negative bench indices
	ErrInvalidBenchIndex = errors.New("invalid bench index")

	// ErrInvariant wraps every formation invariant violation
	ErrInvariant = errors.New("formation invariant violated")
)
