package statestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key addresses the stored state of one machine of one owner instance.
type Key struct {
	Type    string
	ID      string
	Machine string
}

// String renders the key as "type:id:machine". Backends use it as their record id.
func (k Key) String() string {
	return strings.Join([]string{k.Type, k.ID, k.Machine}, KeySeparator)
}

// KeySeparator joins the parts of Key.String. No part may contain it.
const KeySeparator = ":"

// Validate checks that every part of the key is set and free of KeySeparator, so
// distinct keys never render to the same string.
func (k Key) Validate() error {
	for _, part := range []string{k.Type, k.ID, k.Machine} {
		if part == "" || strings.Contains(part, KeySeparator) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, k.String())
		}
	}
	return nil
}

// Record is a stored state and the time it was saved.
type Record struct {
	State     string    `json:"state" bson:"state"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store persists machine states. Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the record for key, or ErrNotFound.
	Load(ctx context.Context, key Key) (Record, error)
	// Save stores state for key, replacing any previous record.
	Save(ctx context.Context, key Key, state string) error
	// Delete removes the record for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key Key) error
}

// NewID returns a random identifier for a new owner instance.
func NewID() string {
	return uuid.NewString()
}
