package statemachine

import (
	"context"
	"time"
)

// The interfaces below are optional capabilities of the owner bound to an Object.
// The engine checks for each one with a type assertion and skips it when absent.

// StateReader loads a machine's current state from the owner's storage.
// Returning "" means no stored value; the machine's initial state is used instead.
type StateReader interface {
	ReadState(ctx context.Context, m *Machine) (string, error)
}

// StateWriter durably stores a machine's new state. It is called only when a state is
// written with persistence requested.
type StateWriter interface {
	WriteState(ctx context.Context, m *Machine, state string) error
}

// StateMirror receives every state write, persisted or not. It suits owners backed by
// a store that tracks unsaved attributes on its own.
type StateMirror interface {
	WriteStateWithoutPersistence(ctx context.Context, m *Machine, state string) error
}

// EventFiredHandler is notified after a transition has been committed.
type EventFiredHandler interface {
	EventFired(ctx context.Context, m *Machine, from, to, event string) error
}

// EventFailedHandler is notified when an event is fired but no transition applies.
type EventFailedHandler interface {
	EventFailed(ctx context.Context, m *Machine, event string) error
}

// TimestampWriter records when a timestamped event moved the owner into state.
type TimestampWriter interface {
	WriteTimestamp(ctx context.Context, m *Machine, state string, at time.Time) error
}
