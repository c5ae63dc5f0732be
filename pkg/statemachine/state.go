package statemachine

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State is a named node of a Machine. States are immutable once the Machine is built.
type State struct {
	name        string
	displayName string
	enter       []Action
	exit        []Action
}

// StateOption configures a State declaration.
type StateOption func(*State)

// WithDisplayName sets the human readable label of a state.
func WithDisplayName(name string) StateOption {
	return func(s *State) {
		if name != "" {
			s.displayName = name
		}
	}
}

// OnEnter appends actions run after a transition into the state.
func OnEnter(actions ...Action) StateOption {
	return func(s *State) {
		s.enter = appendActions(s.enter, actions)
	}
}

// OnExit appends actions run before a transition out of the state.
func OnExit(actions ...Action) StateOption {
	return func(s *State) {
		s.exit = appendActions(s.exit, actions)
	}
}

func (s *State) Name() string { return s.name }

// DisplayName returns the configured label, or the name title-cased with
// underscores turned into spaces.
func (s *State) DisplayName() string {
	if s.displayName != "" {
		return s.displayName
	}
	return humanize(s.name)
}

// Enter runs the enter actions in declaration order. A nil State has no actions.
func (s *State) Enter(ctx context.Context, owner any) error {
	if s == nil {
		return nil
	}
	return runActions(ctx, owner, s.enter)
}

// Exit runs the exit actions in declaration order. A nil State has no actions.
func (s *State) Exit(ctx context.Context, owner any) error {
	if s == nil {
		return nil
	}
	return runActions(ctx, owner, s.exit)
}

func (s *State) clone() *State {
	cp := *s
	cp.enter = slices.Clone(s.enter)
	cp.exit = slices.Clone(s.exit)
	return &cp
}

func appendActions(dst, actions []Action) []Action {
	for _, a := range actions {
		if a != nil {
			dst = append(dst, a)
		}
	}
	return dst
}

func humanize(name string) string {
	// cases.Caser keeps internal state, so one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
