package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/transitions/pkg/statestore"
)

const (
	fieldState     = "state"
	fieldUpdatedAt = "updated_at"
)

// Store keeps each state record in a Redis hash with the fields "state" and
// "updated_at".
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	clock  clock.Clock
}

var _ statestore.Store = (*Store)(nil)

type Option func(*Store)

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL expires records ttl after their last save. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// FromConfig turns the key settings of cfg into options.
func FromConfig(cfg Config) Option {
	return func(s *Store) {
		s.prefix = cfg.KeyPrefix
		s.ttl = cfg.TTL
	}
}

func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "fsm:",
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Load(ctx context.Context, key statestore.Key) (statestore.Record, error) {
	if err := key.Validate(); err != nil {
		return statestore.Record{}, err
	}
	values, err := s.client.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return statestore.Record{}, fmt.Errorf("load %s: %w", key, err)
	}
	state, ok := values[fieldState]
	if !ok {
		return statestore.Record{}, statestore.ErrNotFound
	}
	rec := statestore.Record{State: state}
	if raw := values[fieldUpdatedAt]; raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return statestore.Record{}, errors.Join(ErrCorruptedRecord, err)
		}
		rec.UpdatedAt = at
	}
	return rec, nil
}

func (s *Store) Save(ctx context.Context, key statestore.Key, state string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	k := s.redisKey(key)
	now := s.clock.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, fieldState, state, fieldUpdatedAt, now)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key statestore.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) redisKey(key statestore.Key) string {
	return s.prefix + key.String()
}
