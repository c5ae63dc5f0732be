package statemachine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/transitions/pkg/logger"
)

// DefaultMachine is the name used when a machine is declared without one.
const DefaultMachine = "default"

// Machine is the immutable definition of one named state machine: its states, events
// and initial state. A Machine is safe for concurrent use; per-instance state lives in
// Object.
type Machine struct {
	name       string
	initial    string
	states     map[string]*State
	stateOrder []string
	events     map[string]*Event
	eventOrder []string

	logger *slog.Logger
	clock  clock.Clock
}

// New builds a standalone Machine. Most callers declare machines through
// Type.StateMachine instead, which also registers the state and event names.
func New(name string, configure ...func(*Builder)) (*Machine, error) {
	if name == "" {
		name = DefaultMachine
	}
	return build(newBuilder(name, discardLogger(), clock.New()), configure)
}

// MustNew is like New but panics on an invalid definition.
func MustNew(name string, configure ...func(*Builder)) *Machine {
	m, err := New(name, configure...)
	if err != nil {
		panic(fmt.Sprintf("failed to build state machine: %v", err))
	}
	return m
}

func build(b *Builder, configure []func(*Builder)) (*Machine, error) {
	for _, fn := range configure {
		if fn != nil {
			fn(b)
		}
	}
	return b.build()
}

func (m *Machine) Name() string { return m.name }

// InitialState returns the state instances start in, or "" for a machine without states.
func (m *Machine) InitialState() string { return m.initial }

// StateVariable identifies the per-instance slot caching this machine's current state.
func (m *Machine) StateVariable() string { return m.name + "_current_state" }

func (m *Machine) State(name string) (*State, bool) {
	s, ok := m.states[name]
	return s, ok
}

// States returns the states in declaration order.
func (m *Machine) States() []*State {
	rv := make([]*State, 0, len(m.stateOrder))
	for _, name := range m.stateOrder {
		rv = append(rv, m.states[name])
	}
	return rv
}

// AvailableStates returns every state name sorted lexicographically.
func (m *Machine) AvailableStates() []string {
	rv := slices.Clone(m.stateOrder)
	sort.Strings(rv)
	return rv
}

func (m *Machine) Event(name string) (*Event, bool) {
	e, ok := m.events[name]
	return e, ok
}

// Events returns the events in declaration order.
func (m *Machine) Events() []*Event {
	rv := make([]*Event, 0, len(m.eventOrder))
	for _, name := range m.eventOrder {
		rv = append(rv, m.events[name])
	}
	return rv
}

// SelectOption pairs a state's display name with its name, e.g. for form selects.
type SelectOption struct {
	Label string
	Value string
}

// StatesForSelect returns the states in declaration order as label/value pairs.
func (m *Machine) StatesForSelect() []SelectOption {
	rv := make([]SelectOption, 0, len(m.stateOrder))
	for _, s := range m.States() {
		rv = append(rv, SelectOption{Label: s.DisplayName(), Value: s.name})
	}
	return rv
}

// Update returns a new Machine holding the receiver's definition plus whatever
// configure declares. The receiver is left untouched.
func (m *Machine) Update(configure ...func(*Builder)) (*Machine, error) {
	return m.rebuild(m.logger, m.clock, configure)
}

func (m *Machine) rebuild(log *slog.Logger, clk clock.Clock, configure []func(*Builder)) (*Machine, error) {
	b := newBuilder(m.name, log, clk)
	b.initial = m.initial
	b.stateOrder = slices.Clone(m.stateOrder)
	for name, s := range m.states {
		b.states[name] = s.clone()
	}
	b.eventOrder = slices.Clone(m.eventOrder)
	for name, e := range m.events {
		b.events[name] = e.clone()
	}
	return build(b, configure)
}

// CurrentState returns obj's current state in this machine. It works for machines
// that are not registered on obj's Type.
func (m *Machine) CurrentState(ctx context.Context, obj *Object) (string, error) {
	return obj.currentState(ctx, m)
}

// FireEvent fires event on obj and reports whether a transition occurred. It fails with
// an *InvalidTransitionError when no transition applies to the current state. When
// persist is true the new state is also handed to the owner's StateWriter.
func (m *Machine) FireEvent(ctx context.Context, obj *Object, event string, persist bool, args ...any) (bool, error) {
	return m.fire(ctx, obj, event, persist, true, args)
}

// TryFireEvent is the tolerant form of FireEvent: when no transition applies it
// returns false and a nil error.
func (m *Machine) TryFireEvent(ctx context.Context, obj *Object, event string, persist bool, args ...any) (bool, error) {
	return m.fire(ctx, obj, event, persist, false, args)
}

// CanFire reports whether event would transition obj from its current state.
// Only guards run; nothing is written.
func (m *Machine) CanFire(ctx context.Context, obj *Object, event string, args ...any) (bool, error) {
	e, ok := m.events[event]
	if !ok {
		return false, m.unknownEvent(event)
	}
	current, err := obj.currentState(ctx, m)
	if err != nil {
		return false, err
	}
	t, err := e.Resolve(ctx, current, obj.owner, args...)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// PermittedEvents lists, in declaration order, the events obj could fire right now.
func (m *Machine) PermittedEvents(ctx context.Context, obj *Object, args ...any) ([]string, error) {
	current, err := obj.currentState(ctx, m)
	if err != nil {
		return nil, err
	}
	var rv []string
	for _, name := range m.eventOrder {
		t, err := m.events[name].Resolve(ctx, current, obj.owner, args...)
		if err != nil {
			return nil, err
		}
		if t != nil {
			rv = append(rv, name)
		}
	}
	return rv, nil
}

// fire runs one firing attempt: resolve, exit the old state, run the transition
// callbacks, enter the new state and commit. Any error before the commit leaves the
// instance in its old state. Hooks that run after the commit may still return an
// error, in which case fire reports true together with that error.
func (m *Machine) fire(ctx context.Context, obj *Object, name string, persist, strict bool, args []any) (bool, error) {
	event, ok := m.events[name]
	if !ok {
		return false, m.unknownEvent(name)
	}
	from, err := obj.currentState(ctx, m)
	if err != nil {
		return false, err
	}

	t, leaves, err := event.resolve(ctx, from, obj.owner, args)
	if err != nil {
		return false, err
	}
	if t == nil {
		if h, ok := obj.owner.(EventFailedHandler); ok {
			if err := h.EventFailed(ctx, m, name); err != nil {
				return false, err
			}
		}
		if !strict {
			return false, nil
		}
		return false, newInvalidTransitionError(m.name, name, from, leaves)
	}

	if err := m.states[from].Exit(ctx, obj.owner); err != nil {
		return false, err
	}
	to, err := t.Apply(ctx, obj.owner, args...)
	if err != nil {
		return false, err
	}
	if err := m.states[to].Enter(ctx, obj.owner); err != nil {
		return false, err
	}
	if err := obj.writeState(ctx, m, to, persist); err != nil {
		return false, err
	}

	m.logger.DebugContext(ctx, "state transition",
		logger.Machine(m.name),
		logger.Transition(name, from, to),
		logger.Persisted(persist),
	)

	if h, ok := obj.owner.(EventFiredHandler); ok {
		if err := h.EventFired(ctx, m, from, to, name); err != nil {
			return true, err
		}
	}
	if err := runCallbacks(ctx, obj.owner, event.success, args); err != nil {
		return true, err
	}
	if event.timestamp {
		if w, ok := obj.owner.(TimestampWriter); ok {
			if err := w.WriteTimestamp(ctx, m, to, m.clock.Now()); err != nil {
				return true, err
			}
		}
	}
	return true, nil
}

func (m *Machine) unknownEvent(name string) error {
	return fmt.Errorf("%w: %q on machine %q", ErrUnknownEvent, name, m.name)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
