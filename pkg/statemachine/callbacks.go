package statemachine

import (
	"context"
	"fmt"
	"reflect"
)

// Guard decides whether a transition may fire for owner. Guards must not mutate owner;
// a returned error aborts the firing attempt and is passed to the caller unchanged.
type Guard func(ctx context.Context, owner any, args ...any) (bool, error)

// Callback runs side effects when a transition fires or an event succeeds.
type Callback func(ctx context.Context, owner any, args ...any) error

// Action runs when a state is entered or exited.
type Action func(ctx context.Context, owner any) error

// GuardOf adapts a typed predicate to a Guard.
// The guard fails with ErrUnexpectedOwner when the owner is not a T.
func GuardOf[T any](fn func(ctx context.Context, owner T) bool) Guard {
	return func(ctx context.Context, owner any, _ ...any) (bool, error) {
		v, ok := owner.(T)
		if !ok {
			return false, unexpectedOwner[T](owner)
		}
		return fn(ctx, v), nil
	}
}

// CallbackOf adapts a typed function to a Callback.
func CallbackOf[T any](fn func(ctx context.Context, owner T) error) Callback {
	return func(ctx context.Context, owner any, _ ...any) error {
		v, ok := owner.(T)
		if !ok {
			return unexpectedOwner[T](owner)
		}
		return fn(ctx, v)
	}
}

// ActionOf adapts a typed function to an Action.
func ActionOf[T any](fn func(ctx context.Context, owner T) error) Action {
	return func(ctx context.Context, owner any) error {
		v, ok := owner.(T)
		if !ok {
			return unexpectedOwner[T](owner)
		}
		return fn(ctx, v)
	}
}

func unexpectedOwner[T any](owner any) error {
	return fmt.Errorf("%w: got %T, want %s", ErrUnexpectedOwner, owner, reflect.TypeFor[T]())
}

func runActions(ctx context.Context, owner any, actions []Action) error {
	for _, action := range actions {
		if action == nil {
			continue
		}
		if err := action(ctx, owner); err != nil {
			return err
		}
	}
	return nil
}

func runCallbacks(ctx context.Context, owner any, callbacks []Callback, args []any) error {
	for _, cb := range callbacks {
		if cb == nil {
			continue
		}
		if err := cb(ctx, owner, args...); err != nil {
			return err
		}
	}
	return nil
}
