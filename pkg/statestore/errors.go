package statestore

import "errors"

var (
	// ErrNotFound is returned by Store.Load when no state has been saved for a key.
	ErrNotFound = errors.New("state not found")

	// ErrInvalidKey is returned when a key misses its type, id or machine.
	ErrInvalidKey = errors.New("invalid state key")
)

// IsNotFound reports whether err means the key has no stored state.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
