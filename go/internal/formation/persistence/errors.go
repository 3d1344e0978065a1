package persistence

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrLoad matches every LoadError
	ErrLoad = errors.New("formation load failed")
	// ErrSave matches every SaveError
	ErrSave = errors.New("formation save failed")
)

// LoadError is returned when neither a stored formation nor a bootstrap default
// could be obtained
type LoadError struct {
	TeamID uuid.UUID
	Stage  LoadState
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load formation for team %s during %s: %v", e.TeamID, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// SaveError is returned when the remote store rejected or never received a save
type SaveError struct {
	TeamID uuid.UUID
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save formation for team %s: %v", e.TeamID, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

func (e *SaveError) Is(target error) bool {
	return target == ErrSave
}
