package preset

import "errors"

var (
	// ErrNotFound is returned when no preset has the requested name.
	ErrNotFound = errors.New("preset: not found")

	// ErrInvalidName is returned for an empty or over-long preset name.
	ErrInvalidName = errors.New("preset: invalid name")
)
