package statemachine

import (
	"context"
	"fmt"
)

// Object is the per-instance side of a Type: it caches the current state of every
// machine for one owner and routes event and predicate names to their machines.
//
// Owners usually embed the Object returned by Type.Bind:
//
//	type Order struct {
//		*statemachine.Object
//		ID string
//	}
//
//	order := &Order{ID: id}
//	order.Object = orderType.Bind(order)
//
// An Object is not safe for concurrent use.
type Object struct {
	typ    *Type
	owner  any
	values map[string]string
}

func (o *Object) Type() *Type { return o.typ }
func (o *Object) Owner() any  { return o.owner }

// CurrentState returns the current state of the default machine.
func (o *Object) CurrentState(ctx context.Context) (string, error) {
	return o.CurrentStateOf(ctx, DefaultMachine)
}

// CurrentStateOf returns the current state of the named machine. The first read
// consults the owner's StateReader, falling back to the machine's initial state;
// the result is cached until the next write.
func (o *Object) CurrentStateOf(ctx context.Context, machine string) (string, error) {
	m, err := o.typ.Machine(machine)
	if err != nil {
		return "", err
	}
	return o.currentState(ctx, m)
}

// SetCurrentState writes state for the named machine without validating it.
// With persist the owner's StateWriter runs first; the StateMirror always runs;
// the cache is updated last.
func (o *Object) SetCurrentState(ctx context.Context, machine, state string, persist bool) error {
	m, err := o.typ.Machine(machine)
	if err != nil {
		return err
	}
	return o.writeState(ctx, m, state, persist)
}

// Forget drops the cached state of the named machine so the next read goes back to
// the owner's StateReader.
func (o *Object) Forget(machine string) {
	if machine == "" {
		machine = DefaultMachine
	}
	if m, err := o.typ.Machine(machine); err == nil {
		delete(o.values, m.StateVariable())
	}
}

// Is is the state predicate: it reports whether the machine declaring state is
// currently in it.
func (o *Object) Is(ctx context.Context, state string) (bool, error) {
	m, err := o.typ.predicateMachine(state)
	if err != nil {
		return false, err
	}
	current, err := o.currentState(ctx, m)
	if err != nil {
		return false, err
	}
	return current == state, nil
}

// IsIn reports whether the named machine is currently in state.
func (o *Object) IsIn(ctx context.Context, machine, state string) (bool, error) {
	current, err := o.CurrentStateOf(ctx, machine)
	if err != nil {
		return false, err
	}
	return current == state, nil
}

// Fire fires event on the machine declaring it, without persisting.
// It fails with an *InvalidTransitionError when no transition applies.
func (o *Object) Fire(ctx context.Context, event string, args ...any) error {
	m, err := o.typ.eventMachine(event)
	if err != nil {
		return err
	}
	_, err = m.FireEvent(ctx, o, event, false, args...)
	return err
}

// FireAndPersist is like Fire but also writes the new state through the owner's
// StateWriter.
func (o *Object) FireAndPersist(ctx context.Context, event string, args ...any) error {
	m, err := o.typ.eventMachine(event)
	if err != nil {
		return err
	}
	_, err = m.FireEvent(ctx, o, event, true, args...)
	return err
}

// TryFire fires event without persisting and reports whether a transition occurred.
// An event that does not apply is not an error.
func (o *Object) TryFire(ctx context.Context, event string, args ...any) (bool, error) {
	m, err := o.typ.eventMachine(event)
	if err != nil {
		return false, err
	}
	return m.TryFireEvent(ctx, o, event, false, args...)
}

// CanFire reports whether event could fire now.
func (o *Object) CanFire(ctx context.Context, event string, args ...any) (bool, error) {
	m, err := o.typ.eventMachine(event)
	if err != nil {
		return false, err
	}
	return m.CanFire(ctx, o, event, args...)
}

// FireOn fires event on an explicitly named machine.
func (o *Object) FireOn(ctx context.Context, machine, event string, persist bool, args ...any) (bool, error) {
	m, err := o.typ.Machine(machine)
	if err != nil {
		return false, err
	}
	return m.FireEvent(ctx, o, event, persist, args...)
}

// PermittedEvents lists the events of the named machine that could fire now.
func (o *Object) PermittedEvents(ctx context.Context, machine string, args ...any) ([]string, error) {
	m, err := o.typ.Machine(machine)
	if err != nil {
		return nil, err
	}
	return m.PermittedEvents(ctx, o, args...)
}

func (o *Object) currentState(ctx context.Context, m *Machine) (string, error) {
	key := m.StateVariable()
	if v, ok := o.values[key]; ok {
		return v, nil
	}

	var value string
	if r, ok := o.owner.(StateReader); ok {
		v, err := r.ReadState(ctx, m)
		if err != nil {
			return "", err
		}
		value = v
	}
	if value == "" {
		value = m.initial
	}
	if value == "" {
		return "", fmt.Errorf("%w: %q", ErrNoInitialState, m.name)
	}
	o.values[key] = value
	return value, nil
}

func (o *Object) writeState(ctx context.Context, m *Machine, state string, persist bool) error {
	if persist {
		if w, ok := o.owner.(StateWriter); ok {
			if err := w.WriteState(ctx, m, state); err != nil {
				return err
			}
		}
	}
	if mirror, ok := o.owner.(StateMirror); ok {
		if err := mirror.WriteStateWithoutPersistence(ctx, m, state); err != nil {
			return err
		}
	}
	o.values[m.StateVariable()] = state
	return nil
}
