package statemachine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/benbjohnson/clock"
)

// Builder accumulates the definition of a Machine. Builders are handed to the
// configure functions of Type.StateMachine and Machine.Update; they are not reused
// after the Machine is built.
type Builder struct {
	name       string
	initial    string
	states     map[string]*State
	stateOrder []string
	events     map[string]*Event
	eventOrder []string
	errs       []error

	logger *slog.Logger
	clock  clock.Clock
}

func newBuilder(name string, logger *slog.Logger, clk clock.Clock) *Builder {
	return &Builder{
		name:   name,
		states: make(map[string]*State),
		events: make(map[string]*Event),
		logger: logger,
		clock:  clk,
	}
}

// Initial sets the state new instances start in.
// Without it the first declared state is used.
func (b *Builder) Initial(state string) *Builder {
	if state == "" || state == AnyState {
		b.errs = append(b.errs, fmt.Errorf("invalid initial state %q", state))
		return b
	}
	b.initial = state
	return b
}

// State declares a state. Declaring an existing state merges the options into it.
func (b *Builder) State(name string, opts ...StateOption) *Builder {
	if name == "" || name == AnyState {
		b.errs = append(b.errs, fmt.Errorf("invalid state name %q", name))
		return b
	}
	s := b.state(name)
	for _, opt := range opts {
		opt(s)
	}
	return b
}

// Event declares an event, or reopens an existing one, and runs declare to add its
// transitions. Transitions are appended in call order.
func (b *Builder) Event(name string, declare func(*EventBuilder), opts ...EventOption) *Builder {
	if name == "" {
		b.errs = append(b.errs, errors.New("event name is empty"))
		return b
	}
	e, ok := b.events[name]
	if !ok {
		e = &Event{name: name}
		b.events[name] = e
		b.eventOrder = append(b.eventOrder, name)
	}
	for _, opt := range opts {
		opt(e)
	}
	if declare != nil {
		declare(&EventBuilder{builder: b, event: e})
	}
	return b
}

func (b *Builder) state(name string) *State {
	if s, ok := b.states[name]; ok {
		return s
	}
	s := &State{name: name}
	b.states[name] = s
	b.stateOrder = append(b.stateOrder, name)
	return s
}

func (b *Builder) build() (*Machine, error) {
	for _, name := range b.eventOrder {
		for i, t := range b.events[name].transitions {
			switch {
			case len(t.from) == 0:
				b.errs = append(b.errs, fmt.Errorf("event %q: transition %d has no source state", name, i))
			case slices.Contains(t.from, ""):
				b.errs = append(b.errs, fmt.Errorf("event %q: transition %d has an empty source state", name, i))
			case t.to == "":
				b.errs = append(b.errs, fmt.Errorf("event %q: transition %d has no destination state", name, i))
			case t.to == AnyState:
				b.errs = append(b.errs, fmt.Errorf("event %q: transition %d cannot target the wildcard state", name, i))
			}
			// Referenced states are registered implicitly.
			for _, from := range t.from {
				if from != AnyState && from != "" {
					b.state(from)
				}
			}
			if t.to != "" && t.to != AnyState {
				b.state(t.to)
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(ErrInvalidDefinition, fmt.Errorf("machine %q: %w", b.name, errors.Join(b.errs...)))
	}

	initial := b.initial
	if initial != "" {
		b.state(initial)
	} else if len(b.stateOrder) > 0 {
		initial = b.stateOrder[0]
	}

	m := &Machine{
		name:       b.name,
		initial:    initial,
		states:     b.states,
		stateOrder: b.stateOrder,
		events:     b.events,
		eventOrder: b.eventOrder,
		logger:     b.logger,
		clock:      b.clock,
	}
	for _, s := range m.states {
		if s.displayName == "" {
			s.displayName = humanize(s.name)
		}
	}
	return m, nil
}

// EventBuilder declares the transitions of one event.
type EventBuilder struct {
	builder *Builder
	event   *Event
}

// Transition appends a transition built from opts. From and To are required.
//
//	b.Event("approve", func(e *statemachine.EventBuilder) {
//		e.Transition(statemachine.From("pending"), statemachine.To("approved"),
//			statemachine.WithGuard(isReviewer))
//	})
func (e *EventBuilder) Transition(opts ...TransitionOption) *EventBuilder {
	t := &StateTransition{}
	for _, opt := range opts {
		opt(t)
	}
	e.event.transitions = append(e.event.transitions, t)
	return e
}
