package preset

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset matches any UnknownPresetError
var ErrUnknownPreset = errors.New("unknown preset")

// UnknownPresetError is returned when a preset name is not in the catalog
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}

func (e *UnknownPresetError) Is(target error) bool {
	return target == ErrUnknownPreset
}
