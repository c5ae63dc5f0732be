package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrInvalidMethodOverride = errors.New("invalid method override")
	ErrInvalidDefinition     = errors.New("invalid state machine definition")
	ErrUnknownMachine        = errors.New("unknown state machine")
	ErrUnknownEvent          = errors.New("unknown event")
	ErrUnknownState          = errors.New("unknown state")
	ErrNoInitialState        = errors.New("state machine has no initial state")
	ErrUnexpectedOwner       = errors.New("unexpected owner type")
)

// InvalidTransitionError is returned by strict firing when no transition of the event
// applies to the current state. Rejected is true when at least one transition left the
// current state but every candidate was vetoed by its guards.
type InvalidTransitionError struct {
	Machine  string
	Event    string
	State    string
	Rejected bool
}

func (e *InvalidTransitionError) Error() string {
	if e.Rejected {
		return fmt.Sprintf("can't fire event '%s' in current state '%s' of machine '%s': rejected by guards",
			e.Event, e.State, e.Machine)
	}
	return fmt.Sprintf("can't fire event '%s' in current state '%s' of machine '%s'",
		e.Event, e.State, e.Machine)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func newInvalidTransitionError(machine, event, state string, rejected bool) *InvalidTransitionError {
	return &InvalidTransitionError{
		Machine:  machine,
		Event:    event,
		State:    state,
		Rejected: rejected,
	}
}

// IsInvalidTransitionError reports whether err was caused by firing an event that has no
// applicable transition.
func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsTransitionRejectedError reports whether err was caused by guards vetoing every
// transition that leaves the current state.
func IsTransitionRejectedError(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e) && e.Rejected
}

func IsMethodOverrideError(err error) bool {
	return errors.Is(err, ErrInvalidMethodOverride)
}
