package blueprint

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/transitions/pkg/statemachine"
)

// Funcs resolves the guard, callback and action names a blueprint refers to.
type Funcs struct {
	Guards    map[string]statemachine.Guard
	Callbacks map[string]statemachine.Callback
	Actions   map[string]statemachine.Action
}

// Apply declares every machine of bp on typ. Each machine is resolved completely
// before it is declared, so an unknown name leaves that machine untouched. Machines
// declared before the failing one stay declared.
func (bp *Blueprint) Apply(typ *statemachine.Type, funcs Funcs) error {
	for _, m := range bp.Machines {
		configure, err := m.configure(funcs)
		if err != nil {
			return err
		}
		if _, err := typ.StateMachine(m.Name, configure); err != nil {
			return err
		}
	}
	return nil
}

// Build creates standalone machines, in blueprint order.
func (bp *Blueprint) Build(funcs Funcs) ([]*statemachine.Machine, error) {
	rv := make([]*statemachine.Machine, 0, len(bp.Machines))
	for _, m := range bp.Machines {
		configure, err := m.configure(funcs)
		if err != nil {
			return nil, err
		}
		built, err := statemachine.New(m.Name, configure)
		if err != nil {
			return nil, err
		}
		rv = append(rv, built)
	}
	return rv, nil
}

func (m Machine) configure(funcs Funcs) (func(*statemachine.Builder), error) {
	r := resolver{funcs: funcs, machine: m.Name}

	type stateDecl struct {
		name string
		opts []statemachine.StateOption
	}
	states := make([]stateDecl, 0, len(m.States))
	for _, s := range m.States {
		opts := []statemachine.StateOption{statemachine.WithDisplayName(s.DisplayName)}
		if enter := r.actions(s.Enter); len(enter) > 0 {
			opts = append(opts, statemachine.OnEnter(enter...))
		}
		if exit := r.actions(s.Exit); len(exit) > 0 {
			opts = append(opts, statemachine.OnExit(exit...))
		}
		states = append(states, stateDecl{name: s.Name, opts: opts})
	}

	type eventDecl struct {
		name        string
		opts        []statemachine.EventOption
		transitions [][]statemachine.TransitionOption
	}
	events := make([]eventDecl, 0, len(m.Events))
	for _, e := range m.Events {
		decl := eventDecl{name: e.Name}
		if e.Timestamp {
			decl.opts = append(decl.opts, statemachine.WithTimestamp())
		}
		if success := r.callbacks(e.OnSuccess); len(success) > 0 {
			decl.opts = append(decl.opts, statemachine.OnSuccess(success...))
		}
		for _, t := range e.Transitions {
			if t.Guarded && len(t.Guards) == 0 {
				r.unnamedGuard(e.Name, t)
			}
			decl.transitions = append(decl.transitions, []statemachine.TransitionOption{
				statemachine.From(t.From...),
				statemachine.To(t.To),
				statemachine.WithGuard(r.guards(t.Guards)...),
				statemachine.OnTransition(r.callbacks(t.Callbacks)...),
			})
		}
		events = append(events, decl)
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}

	return func(b *statemachine.Builder) {
		if m.Initial != "" {
			b.Initial(m.Initial)
		}
		for _, s := range states {
			b.State(s.name, s.opts...)
		}
		for _, e := range events {
			b.Event(e.name, func(eb *statemachine.EventBuilder) {
				for _, t := range e.transitions {
					eb.Transition(t...)
				}
			}, e.opts...)
		}
	}, nil
}

// resolver looks names up in Funcs and collects every miss.
type resolver struct {
	funcs   Funcs
	machine string
	errs    []error
}

func (r *resolver) missing(kind, name string) {
	r.errs = append(r.errs, fmt.Errorf("%w: %s %q in machine %q", ErrUnknownFunc, kind, name, r.machine))
}

// unnamedGuard records an exported transition whose guards were not named again.
// Applying it as is would drop the guard.
func (r *resolver) unnamedGuard(event string, t Transition) {
	r.errs = append(r.errs, fmt.Errorf("%w: guarded transition %v -> %q of event %q in machine %q names no guard",
		ErrUnknownFunc, []string(t.From), t.To, event, r.machine))
}

func (r *resolver) guards(names []string) []statemachine.Guard {
	rv := make([]statemachine.Guard, 0, len(names))
	for _, name := range names {
		g, ok := r.funcs.Guards[name]
		if !ok {
			r.missing("guard", name)
			continue
		}
		rv = append(rv, g)
	}
	return rv
}

func (r *resolver) callbacks(names []string) []statemachine.Callback {
	rv := make([]statemachine.Callback, 0, len(names))
	for _, name := range names {
		cb, ok := r.funcs.Callbacks[name]
		if !ok {
			r.missing("callback", name)
			continue
		}
		rv = append(rv, cb)
	}
	return rv
}

func (r *resolver) actions(names []string) []statemachine.Action {
	rv := make([]statemachine.Action, 0, len(names))
	for _, name := range names {
		a, ok := r.funcs.Actions[name]
		if !ok {
			r.missing("action", name)
			continue
		}
		rv = append(rv, a)
	}
	return rv
}
