package core

import (
	"errors"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrMalformedPreference is returned when a stored user or channel preference can no longer be
// interpreted, e.g. a timezone name that does not parse
var ErrMalformedPreference = errors.New("malformed stored preference")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsMalformedPreferenceError checks if an error originates from a corrupted stored preference
func IsMalformedPreferenceError(err error) bool {
	return err != nil && errors.Is(err, ErrMalformedPreference)
}
