package statestore

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/transitions/pkg/logger"
	"github.com/dmitrymomot/transitions/pkg/statemachine"
)

// Persistence connects an owner to a Store. Embedding a *Persistence in an owner
// makes it a statemachine.StateReader, StateWriter and StateMirror:
//
//	type Order struct {
//		*statemachine.Object
//		*statestore.Persistence
//	}
//
//	order := &Order{Persistence: statestore.NewPersistence(store, "Order", id)}
//	order.Object = orderType.Bind(order)
//
// Persisting fires save straight away. Other writes are tracked as dirty until
// Flush saves them.
type Persistence struct {
	store Store
	typ   string
	id    string
	log   *slog.Logger

	mu    sync.Mutex
	saved map[string]string // last state known to be in the store, per machine
	dirty map[string]string
}

// PersistenceOption configures a Persistence.
type PersistenceOption func(*Persistence)

// WithLogger logs saves at debug level.
func WithLogger(l *slog.Logger) PersistenceOption {
	return func(p *Persistence) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPersistence binds the owner identified by typ and id to store. An empty id is
// replaced by NewID.
func NewPersistence(store Store, typ, id string, opts ...PersistenceOption) *Persistence {
	if id == "" {
		id = NewID()
	}
	p := &Persistence{
		store: store,
		typ:   typ,
		id:    id,
		log:   logger.Nop(),
		saved: make(map[string]string),
		dirty: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Persistence) ID() string { return p.id }

// Key returns the store key of the named machine.
func (p *Persistence) Key(machine string) Key {
	return Key{Type: p.typ, ID: p.id, Machine: machine}
}

// ReadState implements statemachine.StateReader. A missing record reads as "", so
// the machine falls back to its initial state.
func (p *Persistence) ReadState(ctx context.Context, m *statemachine.Machine) (string, error) {
	rec, err := p.store.Load(ctx, p.Key(m.Name()))
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	p.saved[m.Name()] = rec.State
	p.mu.Unlock()
	return rec.State, nil
}

// WriteState implements statemachine.StateWriter.
func (p *Persistence) WriteState(ctx context.Context, m *statemachine.Machine, state string) error {
	if err := p.save(ctx, m.Name(), state); err != nil {
		return err
	}
	p.mu.Lock()
	p.saved[m.Name()] = state
	delete(p.dirty, m.Name())
	p.mu.Unlock()
	return nil
}

// WriteStateWithoutPersistence implements statemachine.StateMirror. It marks the
// machine dirty unless state is what the store already holds.
func (p *Persistence) WriteStateWithoutPersistence(_ context.Context, m *statemachine.Machine, state string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if saved, ok := p.saved[m.Name()]; ok && saved == state {
		delete(p.dirty, m.Name())
		return nil
	}
	p.dirty[m.Name()] = state
	return nil
}

// Dirty returns the sorted names of machines with unsaved states.
func (p *Persistence) Dirty() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	rv := make([]string, 0, len(p.dirty))
	for name := range p.dirty {
		rv = append(rv, name)
	}
	slices.Sort(rv)
	return rv
}

// Flush saves every dirty state. Machines saved before an error stay clean; the
// failed one and the rest stay dirty.
func (p *Persistence) Flush(ctx context.Context) error {
	for _, machine := range p.Dirty() {
		p.mu.Lock()
		state, ok := p.dirty[machine]
		p.mu.Unlock()
		if !ok {
			continue
		}
		if err := p.save(ctx, machine, state); err != nil {
			return err
		}
		p.mu.Lock()
		p.saved[machine] = state
		if p.dirty[machine] == state {
			delete(p.dirty, machine)
		}
		p.mu.Unlock()
	}
	return nil
}

func (p *Persistence) save(ctx context.Context, machine, state string) error {
	key := p.Key(machine)
	if err := p.store.Save(ctx, key, state); err != nil {
		p.log.ErrorContext(ctx, "failed to save state",
			logger.StoreKey(key.String()), logger.ToState(state), logger.Error(err))
		return err
	}
	p.log.DebugContext(ctx, "state saved", logger.StoreKey(key.String()), logger.ToState(state))
	return nil
}
