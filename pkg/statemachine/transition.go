package statemachine

import (
	"context"
	"slices"
)

// AnyState is the wildcard source: a transition declared From(AnyState) leaves every state.
const AnyState = "*"

// StateTransition is a guarded edge from one or more source states to a single destination.
type StateTransition struct {
	from      []string
	to        string
	guards    []Guard
	callbacks []Callback
}

// TransitionOption configures a transition declared inside an event.
type TransitionOption func(*StateTransition)

// From appends source states. Use AnyState to match every state.
func From(states ...string) TransitionOption {
	return func(t *StateTransition) {
		for _, s := range states {
			if !slices.Contains(t.from, s) {
				t.from = append(t.from, s)
			}
		}
	}
}

// To sets the destination state.
func To(state string) TransitionOption {
	return func(t *StateTransition) {
		t.to = state
	}
}

// WithGuard appends guards. All guards must pass for the transition to match.
func WithGuard(guards ...Guard) TransitionOption {
	return func(t *StateTransition) {
		for _, g := range guards {
			if g != nil {
				t.guards = append(t.guards, g)
			}
		}
	}
}

// OnTransition appends callbacks run, in order, when the transition fires.
func OnTransition(callbacks ...Callback) TransitionOption {
	return func(t *StateTransition) {
		for _, cb := range callbacks {
			if cb != nil {
				t.callbacks = append(t.callbacks, cb)
			}
		}
	}
}

func (t *StateTransition) From() []string { return slices.Clone(t.from) }
func (t *StateTransition) To() string     { return t.to }
func (t *StateTransition) Guarded() bool  { return len(t.guards) > 0 }

// LeavesFrom reports whether state is one of the transition's sources.
func (t *StateTransition) LeavesFrom(state string) bool {
	return slices.Contains(t.from, state) || slices.Contains(t.from, AnyState)
}

// Matches reports whether the transition leaves current and all of its guards pass.
// Guards are evaluated in declaration order and stop at the first veto or error.
func (t *StateTransition) Matches(ctx context.Context, current string, owner any, args ...any) (bool, error) {
	if !t.LeavesFrom(current) {
		return false, nil
	}
	return t.allowed(ctx, owner, args)
}

// Apply runs the transition callbacks and reports the destination state.
// The caller is responsible for committing the new state.
func (t *StateTransition) Apply(ctx context.Context, owner any, args ...any) (string, error) {
	if err := runCallbacks(ctx, owner, t.callbacks, args); err != nil {
		return "", err
	}
	return t.to, nil
}

func (t *StateTransition) allowed(ctx context.Context, owner any, args []any) (bool, error) {
	for _, guard := range t.guards {
		ok, err := guard(ctx, owner, args...)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
