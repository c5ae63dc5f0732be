package pgstore

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/transitions/pkg/statestore"
)

// DB is the part of *pgxpool.Pool, *pgx.Conn and pgx.Tx the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	loadQuery = `SELECT state, updated_at FROM state_machine_states
WHERE owner_type = $1 AND owner_id = $2 AND machine = $3`

	saveQuery = `INSERT INTO state_machine_states (owner_type, owner_id, machine, state, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (owner_type, owner_id, machine)
DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`

	deleteQuery = `DELETE FROM state_machine_states
WHERE owner_type = $1 AND owner_id = $2 AND machine = $3`
)

// Store keeps state records in the state_machine_states table created by Migrate.
type Store struct {
	db    DB
	clock clock.Clock
}

var _ statestore.Store = (*Store)(nil)

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

func New(db DB, opts ...Option) *Store {
	s := &Store{db: db, clock: clock.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Load(ctx context.Context, key statestore.Key) (statestore.Record, error) {
	if err := key.Validate(); err != nil {
		return statestore.Record{}, err
	}
	var rec statestore.Record
	err := s.db.QueryRow(ctx, loadQuery, key.Type, key.ID, key.Machine).Scan(&rec.State, &rec.UpdatedAt)
	if isNotFoundError(err) {
		return statestore.Record{}, statestore.ErrNotFound
	}
	if err != nil {
		return statestore.Record{}, fmt.Errorf("load %s: %w", key, err)
	}
	return rec, nil
}

func (s *Store) Save(ctx context.Context, key statestore.Key, state string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, saveQuery, key.Type, key.ID, key.Machine, state, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key statestore.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, deleteQuery, key.Type, key.ID, key.Machine); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
