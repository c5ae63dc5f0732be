package statemachine

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/transitions/pkg/logger"
)

// Type describes one owner type: the registry of its named machines and the method
// namespace those machines claim (state predicates and event triggers).
//
// A subtype starts with a copy of its parent's registry. Re-declaring an inherited
// machine on the subtype stores a new Machine in the subtype only, so the parent and
// its instances never observe the change.
type Type struct {
	name   string
	parent *Type

	mu       sync.RWMutex
	machines map[string]*Machine
	methods  map[string]method
	reserved map[string]struct{}

	allowOverride bool
	logger        *slog.Logger
	clock         clock.Clock
}

type methodKind int

const (
	statePredicate methodKind = iota
	eventTrigger
)

// method is one generated name on the owner type and the machine that owns it.
type method struct {
	machine string
	kind    methodKind
	target  string // state or event name
}

// TypeOption configures a Type.
type TypeOption func(*Type)

// WithLogger sets the logger machines of the type log transitions to.
func WithLogger(l *slog.Logger) TypeOption {
	return func(t *Type) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithClock sets the clock used for event timestamps.
func WithClock(c clock.Clock) TypeOption {
	return func(t *Type) {
		if c != nil {
			t.clock = c
		}
	}
}

// AllowOverride lets a later declaration take over a state predicate or event name
// already claimed by another machine. Without it such collisions fail with
// ErrInvalidMethodOverride.
func AllowOverride() TypeOption {
	return func(t *Type) {
		t.allowOverride = true
	}
}

// Reserve protects method names of the owner type, e.g. "save" or "valid?", from
// being claimed by states and events. Reserved names can't be overridden.
func Reserve(names ...string) TypeOption {
	return func(t *Type) {
		for _, n := range names {
			t.reserved[n] = struct{}{}
		}
	}
}

// NewType creates the descriptor of an owner type.
func NewType(name string, opts ...TypeOption) *Type {
	t := &Type{
		name:     name,
		machines: make(map[string]*Machine),
		methods:  make(map[string]method),
		reserved: make(map[string]struct{}),
		logger:   discardLogger(),
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subtype creates a descriptor inheriting the receiver's machines. The registry is
// copied one level deep: the Machines themselves are shared, which is safe because
// they are immutable.
func (t *Type) Subtype(name string, opts ...TypeOption) *Type {
	t.mu.RLock()
	sub := &Type{
		name:          name,
		parent:        t,
		machines:      maps.Clone(t.machines),
		methods:       maps.Clone(t.methods),
		reserved:      maps.Clone(t.reserved),
		allowOverride: t.allowOverride,
		logger:        t.logger,
		clock:         t.clock,
	}
	t.mu.RUnlock()
	for _, opt := range opts {
		opt(sub)
	}
	return sub
}

func (t *Type) Name() string  { return t.name }
func (t *Type) Parent() *Type { return t.parent }

// StateMachine declares the named machine, or extends it when it already exists on the
// type or one of its ancestors. An empty name means DefaultMachine. The extended
// definition replaces the registry entry; the previous Machine is not modified.
//
//	orderType.StateMachine("", func(b *statemachine.Builder) {
//		b.Initial("pending")
//		b.Event("approve", func(e *statemachine.EventBuilder) {
//			e.Transition(statemachine.From("pending"), statemachine.To("approved"))
//		})
//	})
func (t *Type) StateMachine(name string, configure ...func(*Builder)) (*Machine, error) {
	if name == "" {
		name = DefaultMachine
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		m   *Machine
		err error
	)
	if existing := t.lookupLocked(name); existing != nil {
		m, err = existing.rebuild(t.logger, t.clock, configure)
	} else {
		m, err = build(newBuilder(name, t.logger, t.clock), configure)
	}
	if err != nil {
		return nil, err
	}
	if err := t.claimLocked(m); err != nil {
		return nil, err
	}
	t.machines[name] = m

	t.logger.Debug("state machine defined",
		logger.Component("statemachine"),
		logger.Owner(t.name),
		logger.Machine(name),
		slog.Int("states", len(m.stateOrder)),
		slog.Int("events", len(m.eventOrder)),
	)
	return m, nil
}

// MustStateMachine is like StateMachine but panics on error. It suits package-level
// type declarations.
func (t *Type) MustStateMachine(name string, configure ...func(*Builder)) *Machine {
	m, err := t.StateMachine(name, configure...)
	if err != nil {
		panic(fmt.Sprintf("failed to declare state machine: %v", err))
	}
	return m
}

// Machine returns the named machine, looking through ancestors when the type has not
// declared it itself.
func (t *Type) Machine(name string) (*Machine, error) {
	if name == "" {
		name = DefaultMachine
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m := t.lookupLocked(name); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q on type %q", ErrUnknownMachine, name, t.name)
}

// Machines returns every machine visible on the type, sorted by name.
func (t *Type) Machines() []*Machine {
	seen := make(map[string]*Machine)
	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for name, m := range cur.machines {
			if _, ok := seen[name]; !ok {
				seen[name] = m
			}
		}
		cur.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	rv := make([]*Machine, 0, len(names))
	for _, name := range names {
		rv = append(rv, seen[name])
	}
	return rv
}

// AvailableStates returns the sorted state names of the named machine.
func (t *Type) AvailableStates(machine string) ([]string, error) {
	m, err := t.Machine(machine)
	if err != nil {
		return nil, err
	}
	return m.AvailableStates(), nil
}

// Predicates returns the state predicate names visible on the type, e.g.
// "approved?", sorted.
func (t *Type) Predicates() []string {
	seen := make(map[string]methodKind)
	for cur := t; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for name, m := range cur.methods {
			if _, ok := seen[name]; !ok {
				seen[name] = m.kind
			}
		}
		cur.mu.RUnlock()
	}
	var rv []string
	for name, kind := range seen {
		if kind == statePredicate {
			rv = append(rv, name)
		}
	}
	sort.Strings(rv)
	return rv
}

// Bind attaches the type's machines to owner. Hooks (StateReader, StateWriter, ...)
// are looked up on owner, and owner is what guards and callbacks receive.
func (t *Type) Bind(owner any) *Object {
	return &Object{
		typ:    t,
		owner:  owner,
		values: make(map[string]string),
	}
}

// NewObject binds owner to an anonymous, empty type. It is meant for machines built
// with New and fired through Machine.FireEvent.
func NewObject(owner any) *Object {
	return NewType("").Bind(owner)
}

func (t *Type) lookupLocked(name string) *Machine {
	if m, ok := t.machines[name]; ok {
		return m
	}
	if t.parent != nil {
		m, _ := t.parent.Machine(name)
		return m
	}
	return nil
}

func (t *Type) predicateMachine(state string) (*Machine, error) {
	mt, ok := t.method(predicateName(state))
	if !ok || mt.kind != statePredicate {
		return nil, fmt.Errorf("%w: no machine of type %q declares %q", ErrUnknownState, t.name, state)
	}
	return t.Machine(mt.machine)
}

func (t *Type) eventMachine(event string) (*Machine, error) {
	mt, ok := t.method(event)
	if !ok || mt.kind != eventTrigger {
		return nil, fmt.Errorf("%w: no machine of type %q declares %q", ErrUnknownEvent, t.name, event)
	}
	return t.Machine(mt.machine)
}

func (t *Type) method(name string) (method, bool) {
	t.mu.RLock()
	mt, ok := t.methods[name]
	t.mu.RUnlock()
	if !ok && t.parent != nil {
		return t.parent.method(name)
	}
	return mt, ok
}

// claimLocked registers the method names generated for m. Every name is checked
// before any is written, so a failed declaration leaves the namespace unchanged.
func (t *Type) claimLocked(m *Machine) error {
	var errs []error
	claims := make(map[string]method)
	add := func(name string, mt method) {
		if prev, ok := claims[name]; ok && prev != mt {
			errs = append(errs, fmt.Errorf("%q is generated twice by machine %q", name, m.name))
			return
		}
		claims[name] = mt
	}
	for _, s := range m.stateOrder {
		add(predicateName(s), method{machine: m.name, kind: statePredicate, target: s})
	}
	for _, e := range m.eventOrder {
		trigger := method{machine: m.name, kind: eventTrigger, target: e}
		// The trigger, its persisting form and its probe.
		add(e, trigger)
		add(e+"!", trigger)
		add("can_"+e+"?", trigger)
	}

	for name, claim := range claims {
		if _, ok := t.reserved[name]; ok {
			errs = append(errs, fmt.Errorf("%q is reserved on type %q", name, t.name))
			continue
		}
		prev, ok := t.claimedLocked(name)
		if !ok || t.allowOverride || prev == claim {
			continue
		}
		if prev.machine == claim.machine && prev.kind == claim.kind {
			continue
		}
		errs = append(errs, fmt.Errorf("%q of machine %q is already defined by machine %q on type %q",
			name, claim.machine, prev.machine, t.name))
	}
	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
		return errors.Join(ErrInvalidMethodOverride, errors.Join(errs...))
	}

	for name, claim := range claims {
		t.methods[name] = claim
	}
	return nil
}

// claimedLocked looks name up in the type's own namespace, then in its ancestors,
// which may have claimed names after the subtype was created.
func (t *Type) claimedLocked(name string) (method, bool) {
	if mt, ok := t.methods[name]; ok {
		return mt, true
	}
	if t.parent != nil {
		return t.parent.method(name)
	}
	return method{}, false
}

func predicateName(state string) string { return state + "?" }
