package statemachine

import (
	"context"
	"slices"
)

// Event is a named trigger holding an ordered list of candidate transitions.
type Event struct {
	name        string
	transitions []*StateTransition
	success     []Callback
	timestamp   bool
}

// EventOption configures an event declaration.
type EventOption func(*Event)

// OnSuccess appends callbacks run after the new state has been committed.
func OnSuccess(callbacks ...Callback) EventOption {
	return func(e *Event) {
		for _, cb := range callbacks {
			if cb != nil {
				e.success = append(e.success, cb)
			}
		}
	}
}

// WithTimestamp makes a successful firing report the commit time to owners
// implementing TimestampWriter.
func WithTimestamp() EventOption {
	return func(e *Event) {
		e.timestamp = true
	}
}

func (e *Event) Name() string      { return e.name }
func (e *Event) Timestamped() bool { return e.timestamp }

// Transitions returns the candidate transitions in declaration order.
func (e *Event) Transitions() []*StateTransition {
	return slices.Clone(e.transitions)
}

// LeavesFrom reports whether any transition of the event leaves state, ignoring guards.
func (e *Event) LeavesFrom(state string) bool {
	for _, t := range e.transitions {
		if t.LeavesFrom(state) {
			return true
		}
	}
	return false
}

// Resolve returns the first transition, in declaration order, that leaves current and
// whose guards pass. It returns nil when no transition applies. Resolve has no side
// effects beyond running guards.
func (e *Event) Resolve(ctx context.Context, current string, owner any, args ...any) (*StateTransition, error) {
	t, _, err := e.resolve(ctx, current, owner, args)
	return t, err
}

// resolve also reports whether some transition left current, which tells a guard veto
// apart from an event that simply does not apply to the state.
func (e *Event) resolve(ctx context.Context, current string, owner any, args []any) (*StateTransition, bool, error) {
	leaves := false
	for _, t := range e.transitions {
		if !t.LeavesFrom(current) {
			continue
		}
		leaves = true
		ok, err := t.allowed(ctx, owner, args)
		if err != nil {
			return nil, leaves, err
		}
		if ok {
			return t, leaves, nil
		}
	}
	return nil, leaves, nil
}

func (e *Event) clone() *Event {
	cp := *e
	cp.transitions = slices.Clone(e.transitions)
	cp.success = slices.Clone(e.success)
	return &cp
}
